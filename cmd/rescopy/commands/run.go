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

// Package commands implements the rescopy subcommands.
package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rescopy/cmd/rescopy/opts"
	"github.com/walteh/rescopy/pkg/log"
	"github.com/walteh/rescopy/pkg/operation"
	"github.com/walteh/rescopy/pkg/transfer"
)

// RunOpts are the flags of the run command
type RunOpts struct {
	Skip             bool
	ShowFiles        bool
	DryRun           bool
	Diff             bool
	DefaultDirectory string
	SamePathContent  transfer.SamePathPolicy
}

// 🏃 NewRunCmd creates the run command
func NewRunCmd(root *opts.RootOpts) *cobra.Command {
	o := &RunOpts{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Copy or move every configured resource",
		Long: `Run every resource of the config file in order. Each resource
enumerates its working directory, rewrites file paths and contents, and
copies or moves the results. Empty directories left by a move are pruned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, root, o)
		},
	}
	AddRunFlags(cmd, o)
	return cmd
}

// AddRunFlags binds the run flags to cmd. The root command shares them so
// that run is the default action.
func AddRunFlags(cmd *cobra.Command, o *RunOpts) {
	f := cmd.Flags()
	f.BoolVar(&o.Skip, "skip", false, "skip the whole run")
	f.BoolVar(&o.ShowFiles, "show-files", false, "print every transferred file")
	f.BoolVar(&o.DryRun, "dry-run", false, "plan the run without touching the file system")
	f.BoolVar(&o.Diff, "diff", false, "with --dry-run, print content diffs")
	f.StringVar(&o.DefaultDirectory, "default-dir", "", "working directory for resources without one")
	f.Var(&o.SamePathContent, "same-path-content", "content rules on an unchanged path: rewrite or skip")
}

// Apply overrides the settings with every flag the user passed
func (o *RunOpts) Apply(cmd *cobra.Command, s *operation.Settings) {
	f := cmd.Flags()
	if f.Changed("skip") {
		s.Skip = o.Skip
	}
	if f.Changed("show-files") {
		s.ShowFiles = o.ShowFiles
	}
	if f.Changed("default-dir") {
		s.DefaultDirectory = o.DefaultDirectory
	}
	if f.Changed("same-path-content") {
		s.SamePathContent = o.SamePathContent
	}
	s.DryRun = o.DryRun
	s.Diff = o.Diff
}

// 🏃 Run loads the config and runs the pipeline
func Run(cmd *cobra.Command, root *opts.RootOpts, o *RunOpts) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := root.Load(ctx)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	settings := cfg.Settings()
	o.Apply(cmd, &settings)

	reporter := log.New(root.Console(), *logger)
	ctx = log.NewContext(ctx, reporter)
	if settings.DryRun {
		reporter.Header("dry run")
	} else {
		reporter.Header("run")
	}

	p, err := operation.New(operation.Options{Settings: settings})
	if err != nil {
		return errors.Errorf("creating pipeline: %w", err)
	}

	report, err := p.Run(ctx, cfg.Resources)
	if err != nil {
		return errors.Errorf("running resources: %w", err)
	}

	if settings.Skip {
		return nil
	}

	reporter.LogNewline()
	reporter.Summary(ctx, report.Totals())
	if settings.DryRun {
		opts.NewUserLogger(ctx, root.Console()).LogStateChange("dry run: no files were written or pruned")
	}
	return nil
}
