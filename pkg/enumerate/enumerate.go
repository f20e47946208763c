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

package enumerate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rescopy/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// 📂 Lister resolves a directory and its glob patterns into matching files
type Lister interface {
	// ListFiles returns absolute paths of the regular files under directory
	// that match any include and no exclude. Order is unspecified.
	ListFiles(ctx context.Context, directory string, includes, excludes []string) ([]string, error)
}

// DefaultExcludes are skipped when DirLister.DefaultExcludes is set
var DefaultExcludes = []string{
	"**/*~",
	"**/#*#",
	"**/.#*",
	"**/%*%",
	"**/._*",
	"**/CVS",
	"**/CVS/**",
	"**/.cvsignore",
	"**/.svn",
	"**/.svn/**",
	"**/.bzr",
	"**/.bzr/**",
	"**/.hg",
	"**/.hg/**",
	"**/.hgignore",
	"**/.git",
	"**/.git/**",
	"**/.gitignore",
	"**/.gitattributes",
	"**/.DS_Store",
}

// SCMDirs are version control metadata directories. Enumeration skips
// them with the default excludes and pruning never descends into them.
var SCMDirs = []string{"CVS", ".svn", ".bzr", ".hg", ".git"}

// IsSCMDir reports whether a directory base name is in SCMDirs
func IsSCMDir(name string) bool {
	for _, d := range SCMDirs {
		if name == d {
			return true
		}
	}
	return false
}

// 🔍 DirLister walks the local filesystem and matches doublestar globs
// against slash separated paths relative to the walked directory
type DirLister struct {
	DefaultExcludes bool
}

var _ Lister = (*DirLister)(nil)

// NewDirLister creates a lister with the default excludes turned on
func NewDirLister() *DirLister {
	return &DirLister{DefaultExcludes: true}
}

func (l *DirLister) ListFiles(ctx context.Context, directory string, includes, excludes []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	root, err := filepath.Abs(directory)
	if err != nil {
		return nil, &fserr.IOError{Op: "resolve", Path: directory, Err: err}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &fserr.IOError{Op: "scan", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &fserr.IOError{Op: "scan", Path: root, Err: errors.New("not a directory")}
	}

	inc, err := SplitPatterns(includes)
	if err != nil {
		return nil, err
	}
	if len(inc) == 0 {
		inc = []string{"**"}
	}

	exc, err := SplitPatterns(excludes)
	if err != nil {
		return nil, err
	}
	if l.DefaultExcludes {
		exc = append(exc, DefaultExcludes...)
	}

	logger.Debug().
		Str("directory", root).
		Strs("includes", inc).
		Strs("excludes", exc).
		Msg("listing files")

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &fserr.IOError{Op: "scan", Path: path, Err: walkErr}
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &fserr.IOError{Op: "scan", Path: path, Err: err}
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excludesTree(rel, exc) {
				logger.Debug().Str("dir", rel).Msg("skipping excluded directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if matchesAny(rel, inc) && !matchesAny(rel, exc) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("listing files in %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// 🔪 SplitPatterns expands comma joined pattern lists, trims them and
// normalizes them for matching. A trailing slash means "everything below".
func SplitPatterns(patterns []string) ([]string, error) {
	var out []string
	for _, entry := range patterns {
		for _, p := range strings.Split(entry, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			p = strings.ReplaceAll(p, `\`, "/")
			p = strings.TrimPrefix(p, "./")
			p = strings.TrimPrefix(p, "/")
			if strings.HasSuffix(p, "/") {
				p += "**"
			}
			if !doublestar.ValidatePattern(p) {
				return nil, errors.Errorf("invalid glob pattern %q", p)
			}
			out = append(out, p)
		}
	}
	return out, nil
}

func matchesAny(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// excludesTree reports whether an exclude of the form "x/**" covers the
// directory rel, so nothing below it can match
func excludesTree(rel string, excludes []string) bool {
	for _, p := range excludes {
		base, ok := strings.CutSuffix(p, "/**")
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(base, rel); matched {
			return true
		}
	}
	return false
}
