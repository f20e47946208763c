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

package operation

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rescopy/pkg/enumerate"
	"github.com/walteh/rescopy/pkg/fserr"
	"github.com/walteh/rescopy/pkg/log"
	"github.com/walteh/rescopy/pkg/pathmap"
	"github.com/walteh/rescopy/pkg/prune"
	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/rule"
	"github.com/walteh/rescopy/pkg/text"
	"github.com/walteh/rescopy/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// DefaultBuildDirectory is the working directory of resources when neither
// the resource nor the settings name one. It is relative to BaseDir.
const DefaultBuildDirectory = "target"

// ⚙️ Settings are the run wide options
type Settings struct {
	// BaseDir anchors relative working directories. It must be absolute.
	BaseDir string
	// DefaultDirectory is used by resources without a directory. Empty
	// means DefaultBuildDirectory.
	DefaultDirectory string
	// Skip turns the whole run into a no-op
	Skip bool
	// ShowFiles reports every file and its path rewrite
	ShowFiles bool
	// DryRun resolves and reports without writing or pruning anything
	DryRun bool
	// Diff prints content diffs during a dry run
	Diff bool
	// SamePathContent decides what happens to files that map onto themselves
	SamePathContent transfer.SamePathPolicy
}

// 🔧 Options contains everything a Pipeline needs
type Options struct {
	Settings Settings
	// Lister enumerates files. When nil a DirLister honoring each
	// resource's DefaultExcludes is used.
	Lister enumerate.Lister
	// Executor places files. When nil a transfer.Executor with the
	// configured same path policy is used.
	Executor transfer.Transferer
	// Reporter receives console output. When nil the reporter stored on the
	// run context is used, and output is discarded if there is none.
	Reporter *log.Logger
}

// 🏃 Pipeline runs resources one after another
type Pipeline struct {
	settings Settings
	lister   enumerate.Lister
	executor transfer.Transferer
	reporter *log.Logger
}

// 🏭 New creates a pipeline with the given options
func New(opts Options) (*Pipeline, error) {
	if opts.Settings.BaseDir == "" {
		return nil, errors.Errorf("base dir is required")
	}
	if !filepath.IsAbs(opts.Settings.BaseDir) {
		return nil, errors.Errorf("base dir %q must be absolute", opts.Settings.BaseDir)
	}

	p := &Pipeline{
		settings: opts.Settings,
		lister:   opts.Lister,
		executor: opts.Executor,
		reporter: opts.Reporter,
	}
	p.settings.BaseDir = filepath.Clean(p.settings.BaseDir)

	if p.executor == nil {
		p.executor = transfer.NewExecutor(opts.Settings.SamePathContent)
	}
	return p, nil
}

// 🚀 Run processes resources in order and stops at the first failure
func (p *Pipeline) Run(ctx context.Context, resources []*resource.Resource) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	report := &Report{DryRun: p.settings.DryRun}

	reporter := p.reporter
	if reporter == nil {
		reporter = log.FromContext(ctx)
	}
	ctx = log.NewContext(ctx, reporter)

	if p.settings.Skip {
		reporter.Infof("skipping %d resources", len(resources))
		return report, nil
	}

	if len(resources) == 0 {
		reporter.Warning("no resources were defined to move or copy")
		return report, nil
	}

	for _, res := range resources {
		if err := ctx.Err(); err != nil {
			return report, errors.Errorf("run cancelled: %w", err)
		}

		rr, err := p.runResource(ctx, res)
		report.Resources = append(report.Resources, rr)
		if err != nil {
			reporter.Errorf("resource %s failed after %d files", res.ID, len(rr.Files))
			return report, err
		}
	}

	logger.Debug().Int("resources", len(report.Resources)).Bool("dry_run", report.DryRun).Msg("run complete")
	return report, nil
}

// 📂 WorkingDir returns the absolute directory a resource operates in
func (p *Pipeline) WorkingDir(res *resource.Resource) string {
	dir := res.Directory
	if dir == "" {
		dir = p.settings.DefaultDirectory
	}
	if dir == "" {
		dir = DefaultBuildDirectory
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.settings.BaseDir, dir)
	}
	return filepath.Clean(dir)
}

func (p *Pipeline) listerFor(res *resource.Resource) enumerate.Lister {
	if p.lister != nil {
		return p.lister
	}
	return &enumerate.DirLister{DefaultExcludes: res.DefaultExcludes}
}

func (p *Pipeline) runResource(ctx context.Context, res *resource.Resource) (ResourceReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("resource", res.ID).Logger()
	ctx = logger.WithContext(ctx)
	reporter := log.FromContext(ctx)

	wd := p.WorkingDir(res)
	rr := ResourceReport{ID: res.ID, WorkingDir: wd}

	reporter.StartResource(ctx, header(res, wd))

	files, err := p.listerFor(res).ListFiles(ctx, wd, res.Includes, res.Excludes)
	if err != nil {
		return rr, wrap(res, "", "listing files", err)
	}
	logger.Debug().Str("working_dir", wd).Int("files", len(files)).Msg("enumerated files")

	resolver := &pathmap.Resolver{}
	if p.settings.ShowFiles {
		resolver.Trace = func(before, after string) {
			reporter.LogPathRewrite(ctx, before, after)
		}
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return rr, errors.Errorf("run cancelled: %w", err)
		}

		fr, err := p.runFile(ctx, res, resolver, wd, file)
		if err != nil {
			return rr, err
		}
		rr.Files = append(rr.Files, fr)
	}

	if !p.settings.DryRun {
		pruned, err := prune.Prune(ctx, wd)
		if err != nil {
			return rr, wrap(res, "", "pruning", err)
		}
		rr.Pruned = pruned
	}

	reporter.EndResource(ctx, rr.Pruned)
	return rr, nil
}

func (p *Pipeline) runFile(ctx context.Context, res *resource.Resource, resolver *pathmap.Resolver, wd, file string) (FileResult, error) {
	fr := FileResult{Source: file}

	dst, err := resolver.Resolve(res, wd, file)
	if err != nil {
		return fr, wrap(res, file, "resolving destination", err)
	}
	fr.Destination = dst

	var content *text.Result
	if p.settings.DryRun {
		fr.Action, content, err = p.executor.Plan(ctx, res, file, dst)
	} else {
		fr.Action, err = p.executor.Transfer(ctx, res, file, dst)
	}
	if err != nil {
		return fr, wrap(res, file, "transferring", err)
	}

	if p.settings.ShowFiles || p.settings.DryRun {
		log.FromContext(ctx).LogTransfer(ctx, log.TransferLine{
			Operation:   res.Operation(),
			Source:      display(wd, file),
			Destination: display(wd, dst),
			Action:      fr.Action.String(),
			DryRun:      p.settings.DryRun,
		})
	}

	if p.settings.DryRun && p.settings.Diff && content != nil && content.WasModified {
		log.FromContext(ctx).LogDiff(ctx, file, text.Diff(string(content.Original), string(content.Modified)))
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", file).
		Str("destination", dst).
		Stringer("action", fr.Action).
		Msg("handled file")

	return fr, nil
}

// wrap names the resource and file on an error and fills in the resource
// of IO errors that did not know it
func wrap(res *resource.Resource, file, doing string, err error) error {
	var ioErr *fserr.IOError
	if errors.As(err, &ioErr) && ioErr.Resource == "" {
		ioErr.Resource = res.ID
	}
	if file == "" {
		return errors.Errorf("resource %s: %s: %w", res.ID, doing, err)
	}
	return errors.Errorf("resource %s: %s %s: %w", res.ID, doing, file, err)
}

func header(res *resource.Resource, wd string) log.ResourceHeader {
	return log.ResourceHeader{
		ID:              res.ID,
		WorkingDir:      wd,
		Charset:         res.Charset,
		Move:            res.Move,
		WorkOnFullPath:  res.WorkOnFullPath,
		NormalizePath:   res.NormalizePath,
		ReplaceExisting: res.ReplaceExisting,
		Includes:        res.Includes,
		Excludes:        res.Excludes,
		Paths:           describeAll(res.Paths),
		Replaces:        describeAll(res.Replaces),
	}
}

func describeAll(rules []rule.Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, rule.Describe(r))
	}
	return out
}

// display shortens paths under the working directory
func display(wd, p string) string {
	rel, err := filepath.Rel(wd, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
