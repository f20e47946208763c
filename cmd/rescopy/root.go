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
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/rescopy/cmd/rescopy/commands"
	"github.com/walteh/rescopy/cmd/rescopy/opts"
)

// 🌳 newRootCmd builds the command tree. Without a subcommand it runs.
func newRootCmd() *cobra.Command {
	root := &opts.RootOpts{}
	run := &commands.RunOpts{}

	cmd := &cobra.Command{
		Use:   "rescopy",
		Short: "Copy, move and rename resources with path and content rules",
		Long: `rescopy copies or moves groups of files, rewriting their paths and
contents with literal or regex rules. Resources are read from a YAML, JSON
or HCL config file and run in order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			root.ConfigExplicit = cmd.Flags().Changed("config")
			root.Stdout = cmd.OutOrStdout()
			logger := newLogger(os.Stderr, root.Debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Run(cmd, root, run)
		},
	}

	addRootFlags(cmd, root)
	commands.AddRunFlags(cmd, run)

	cmd.AddCommand(
		commands.NewRunCmd(root),
		commands.NewValidateCmd(root),
		newVersionCmd(root),
	)

	return cmd
}

// 🎯 addRootFlags adds the persistent flags shared by every command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.ConfigFile, "config", "c", opts.DefaultConfigFile, "config file (yaml, json or hcl)")
	f.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	f.StringVar(&o.BaseDir, "base-dir", "", "directory relative resource directories resolve against (default: the config file's directory)")
}

// 📝 newLogger returns the console logger used on stderr
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()
}
