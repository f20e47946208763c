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

// Package pathmap computes where a matched file ends up.
//
// Path rules see either the absolute source path or the path relative to the
// working directory (with a leading slash). In relative mode the rewritten
// path is joined back onto the working directory and must stay inside it.
package pathmap

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🧭 Resolver maps matched files to destinations
type Resolver struct {
	// Trace, when set, receives the rule input and output of every
	// resolution that had path rules to apply
	Trace func(before, after string)
}

// Resolve is Resolver.Resolve without tracing
func Resolve(res *resource.Resource, workingDir, file string) (string, error) {
	return (&Resolver{}).Resolve(res, workingDir, file)
}

// 📍 Resolve returns the destination for file, an absolute path under
// workingDir produced by the resource enumeration
func (r *Resolver) Resolve(res *resource.Resource, workingDir, file string) (string, error) {
	if !res.HasPathRules() {
		return file, nil
	}

	base := file
	if !res.WorkOnFullPath {
		rel, ok := strings.CutPrefix(file, workingDir)
		if !ok {
			return "", errors.Errorf("file %s is not inside working directory %s", file, workingDir)
		}
		base = rel
	}

	rules := res.Paths
	if res.NormalizePath {
		base = Normalize(base)
		normalized, err := normalizeRules(rules)
		if err != nil {
			return "", err
		}
		rules = normalized
	}

	out := rule.ApplyAll(base, rules)
	if r.Trace != nil {
		r.Trace(base, out)
	}

	if res.WorkOnFullPath {
		dst := filepath.Clean(filepath.FromSlash(out))
		if !filepath.IsAbs(dst) {
			return "", &rule.ConfigurationError{
				Field:  "paths",
				Reason: "full path rewrite produced a relative destination " + out,
			}
		}
		return dst, nil
	}

	dst := filepath.Join(workingDir, filepath.FromSlash(out))
	if err := contained(workingDir, dst); err != nil {
		return "", &rule.ConfigurationError{
			Field:  "paths",
			Reason: err.Error(),
		}
	}
	return dst, nil
}

func contained(workingDir, dst string) error {
	rel, err := filepath.Rel(workingDir, dst)
	if err != nil {
		return errors.Errorf("destination %s cannot be placed under %s: %w", dst, workingDir, err)
	}
	if rel == "." {
		return errors.Errorf("destination %s resolves to the working directory itself", dst)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Errorf("destination %s escapes working directory %s", dst, workingDir)
	}
	return nil
}

// 🧼 Normalize converts separators to forward slashes and collapses "." and
// ".." segments. A trailing slash is kept and an empty string stays empty.
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	trailing := strings.HasSuffix(p, "/")
	c := path.Clean(p)
	if trailing && c != "/" {
		c += "/"
	}
	return c
}

// Regex rules are left alone, backslashes in them are escapes.
func normalizeRules(rules []rule.Rule) ([]rule.Rule, error) {
	out := make([]rule.Rule, len(rules))
	for i, r := range rules {
		if r.Kind() != rule.KindLiteral {
			out[i] = r
			continue
		}
		n, err := rule.NewLiteral(Normalize(r.From()), Normalize(r.To()))
		if err != nil {
			return nil, errors.Errorf("normalizing paths[%d]: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
