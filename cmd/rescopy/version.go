// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/rescopy/cmd/rescopy/opts"
)

// 🏷️ BuildInfo describes the running binary
type BuildInfo struct {
	Version  string `json:"version"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
	Commit   string `json:"commit,omitempty"`
	Dirty    bool   `json:"dirty,omitempty"`
	Built    string `json:"built,omitempty"`
}

// ReadBuildInfo collects the module version and vcs stamps
func ReadBuildInfo() *BuildInfo {
	b := &BuildInfo{
		Version:  "dev",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		b.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Commit = s.Value
		case "vcs.time":
			b.Built = s.Value
		case "vcs.modified":
			b.Dirty = s.Value == "true"
		}
	}
	return b
}

// Rows returns the key/value pairs shown by the version command
func (b *BuildInfo) Rows() pterm.TableData {
	commit := b.Commit
	if commit == "" {
		commit = "unknown"
	}
	if b.Dirty {
		commit += " (dirty)"
	}
	built := b.Built
	if built == "" {
		built = "unknown"
	}
	return pterm.TableData{
		{"version", b.Version},
		{"commit", commit},
		{"built", built},
		{"go", b.Go},
		{"platform", b.Platform},
	}
}

// 📝 Render writes the build info as a titled table
func (b *BuildInfo) Render(w io.Writer) error {
	title := color.New(color.Bold, color.FgCyan).Sprint("rescopy")
	if _, err := fmt.Fprintf(w, "🚀 %s %s\n", title, b.Version); err != nil {
		return err
	}
	return pterm.DefaultTable.WithWriter(w).WithData(b.Rows()).Render()
}

func newVersionCmd(root *opts.RootOpts) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := ReadBuildInfo()
			if asJSON {
				enc := json.NewEncoder(root.Console())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			return info.Render(root.Console())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print build information as json")
	return cmd
}
