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

package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rescopy/cmd/rescopy/opts"
	"github.com/walteh/rescopy/pkg/config"
	"github.com/walteh/rescopy/pkg/rule"
)

// 🔍 NewValidateCmd creates the validate command
func NewValidateCmd(root *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and compile the config without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.Load(cmd.Context())
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if err := RenderConfig(root, cfg); err != nil {
				return errors.Errorf("rendering config: %w", err)
			}
			opts.NewUserLogger(cmd.Context(), root.Console()).
				LogValidation(true, fmt.Sprintf("%d resources are valid", len(cfg.Resources)), nil)
			return nil
		},
	}
}

// RenderConfig prints one table row per resource
func RenderConfig(root *opts.RootOpts, cfg *config.Config) error {
	data := pterm.TableData{{"id", "op", "directory", "charset", "paths", "replaces"}}
	for _, res := range cfg.Resources {
		dir := res.Directory
		if dir == "" {
			dir = "<default>"
		}
		data = append(data, []string{
			res.ID,
			res.Operation(),
			dir,
			res.Charset,
			describe(res.Paths),
			describe(res.Replaces),
		})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(root.Console()).
		WithData(data).
		Render()
}

func describe(rules []rule.Rule) string {
	if len(rules) == 0 {
		return "-"
	}
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = rule.Describe(r)
	}
	return strings.Join(out, "\n")
}
