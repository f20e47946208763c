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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // base width for the source path
	opWidth    = 3  // width for the cp/mv verb
)

// 🎯 TransferLine is one file handled by a resource
type TransferLine struct {
	Operation   string // "cp" or "mv"
	Source      string
	Destination string
	Action      string // what happened, e.g. "copied" or "unchanged"
	DryRun      bool   // nothing was written
}

// 📦 ResourceHeader describes a resource before its files are processed
type ResourceHeader struct {
	ID              string
	WorkingDir      string
	Charset         string
	Move            bool
	WorkOnFullPath  bool
	NormalizePath   bool
	ReplaceExisting bool
	Includes        []string
	Excludes        []string
	Paths           []string // described path rules
	Replaces        []string // described content rules
}

// 📊 Totals summarizes a whole run
type Totals struct {
	Resources int
	Files     int
	Copied    int
	Moved     int
	Rewritten int
	Unchanged int
	Pruned    int
	DryRun    bool
}

// 🎯 Logger writes colored console lines and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	current string
	files   int
}

// 🏭 New creates a new logger writing to console and mirroring to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Discard is a logger that drops everything
func Discard() *Logger {
	return New(io.Discard, zerolog.Nop())
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding logger when
// none was stored
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func actionSymbol(action string) (rune, color.Attribute) {
	switch action {
	case "copied":
		return '✓', color.FgGreen
	case "moved":
		return '→', color.FgBlue
	case "rewritten":
		return '⟳', color.FgBlue
	case "rewritten in place":
		return '⟳', color.FgMagenta
	default:
		return '•', color.FgCyan
	}
}

// 📝 formatTransfer formats a transfer line for display
func (l *Logger) formatTransfer(line TransferLine) string {
	symbol, symbolColor := actionSymbol(line.Action)
	if line.DryRun {
		symbol, symbolColor = '~', color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s -> %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(color.Bold).Sprint(fmt.Sprintf("%-*s", opWidth, line.Operation)),
		fmt.Sprintf("%-*s", nameWidth, line.Source),
		line.Destination,
		color.New(color.Faint).Sprint(line.Action))
}

// 📝 LogTransfer logs a single cp/mv line
func (l *Logger) LogTransfer(ctx context.Context, line TransferLine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files++
	fmt.Fprintln(l.console, l.formatTransfer(line))

	l.zlog.Info().
		Str("resource", l.current).
		Str("op", line.Operation).
		Str("source", line.Source).
		Str("destination", line.Destination).
		Str("action", line.Action).
		Bool("dry_run", line.DryRun).
		Msg("file transfer")
}

// 📝 LogPathRewrite shows the path rule input and output for a file. Paths
// no rule touched are marked unchanged.
func (l *Logger) LogPathRewrite(ctx context.Context, before, after string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if before == after {
		fmt.Fprintf(l.console, "%*s%s %s %s\n", fileIndent+2, "",
			color.New(color.Faint).Sprint("path"),
			before,
			color.New(color.Faint).Sprint("(unchanged)"))
	} else {
		fmt.Fprintf(l.console, "%*s%s %s %s %s\n", fileIndent+2, "",
			color.New(color.Faint).Sprint("path"),
			before,
			color.New(color.Faint).Sprint("=>"),
			after)
	}

	l.zlog.Debug().Str("before", before).Str("after", after).Msg("path rewrite")
}

// 📝 LogDiff prints a rendered content diff below a transfer line
func (l *Logger) LogDiff(ctx context.Context, path, diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if diff == "" {
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		c := color.New(color.Faint)
		switch {
		case strings.HasPrefix(line, "+"):
			c = color.New(color.FgGreen)
		case strings.HasPrefix(line, "-"):
			c = color.New(color.FgRed)
		}
		fmt.Fprintf(l.console, "%*s%s\n", fileIndent+2, "", c.Sprint(line))
	}

	l.zlog.Debug().Str("file", path).Int("diff_bytes", len(diff)).Msg("content diff")
}

// 📝 StartResource prints the informational block for a resource
func (l *Logger) StartResource(ctx context.Context, h ResourceHeader) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = h.ID
	l.files = 0

	fmt.Fprintf(l.console, "[resource %s]\n", color.New(color.FgCyan).Sprint(h.ID))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(h.WorkingDir),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(h.Charset))

	indent := fmt.Sprintf("%*s", fileIndent, "")
	fmt.Fprintf(l.console, "%smove: %t  work on full path: %t  normalize path: %t  replace existing: %t\n",
		indent, h.Move, h.WorkOnFullPath, h.NormalizePath, h.ReplaceExisting)
	fmt.Fprintf(l.console, "%sincludes: %s\n", indent, listOrNone(h.Includes))
	fmt.Fprintf(l.console, "%sexcludes: %s\n", indent, listOrNone(h.Excludes))
	writeRules(l.console, indent, "path rules", h.Paths)
	writeRules(l.console, indent, "replace rules", h.Replaces)

	l.zlog.Info().
		Str("resource", h.ID).
		Str("working_dir", h.WorkingDir).
		Str("charset", h.Charset).
		Bool("move", h.Move).
		Bool("work_on_full_path", h.WorkOnFullPath).
		Bool("normalize_path", h.NormalizePath).
		Bool("replace_existing", h.ReplaceExisting).
		Strs("includes", h.Includes).
		Strs("excludes", h.Excludes).
		Strs("paths", h.Paths).
		Strs("replaces", h.Replaces).
		Msg("starting resource")
}

// 📝 EndResource closes the block opened by StartResource
func (l *Logger) EndResource(ctx context.Context, pruned []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == "" {
		return
	}

	for _, dir := range pruned {
		fmt.Fprintf(l.console, "%s%s %s\n",
			fmt.Sprintf("%*s", fileIndent, ""),
			color.New(color.FgRed).Sprint("✗"),
			dir)
	}

	l.zlog.Info().
		Str("resource", l.current).
		Int("files", l.files).
		Int("pruned", len(pruned)).
		Msg("resource complete")

	l.current = ""
	l.files = 0
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func writeRules(w io.Writer, indent, title string, rules []string) {
	if len(rules) == 0 {
		fmt.Fprintf(w, "%s%s: (none)\n", indent, title)
		return
	}
	fmt.Fprintf(w, "%s%s:\n", indent, title)
	for _, r := range rules {
		fmt.Fprintf(w, "%s  %s\n", indent, r)
	}
}

// 📝 Summary logs the totals of a run
func (l *Logger) Summary(ctx context.Context, t Totals) {
	prefix := ""
	if t.DryRun {
		prefix = "dry run: "
	}
	l.Successf("%s%d resources, %d files (%d copied, %d moved, %d rewritten, %d unchanged), %d directories pruned",
		prefix, t.Resources, t.Files, t.Copied, t.Moved, t.Rewritten, t.Unchanged, t.Pruned)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rescopy")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
