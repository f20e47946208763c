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

package pathmap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

func literal(t *testing.T, from, to string) rule.Rule {
	t.Helper()
	r, err := rule.NewLiteral(from, to)
	require.NoError(t, err)
	return r
}

func regex(t *testing.T, from, to string) rule.Rule {
	t.Helper()
	r, err := rule.NewRegex(from, to)
	require.NoError(t, err)
	return r
}

func TestResolve(t *testing.T) {
	wd := filepath.FromSlash("/work/target")
	src := filepath.Join(wd, "folder1", "folder2", "test1.txt")

	tests := []struct {
		name        string
		setup       func(t *testing.T, r *resource.Resource)
		want        string
		wantTrace   [2]string
		expectError bool
	}{
		{
			name: "no_path_rules_returns_source",
			want: src,
		},
		{
			name: "relative_literal",
			setup: func(t *testing.T, r *resource.Resource) {
				r.Paths = []rule.Rule{literal(t, "folder1", "copy1")}
			},
			want:      filepath.Join(wd, "copy1", "folder2", "test1.txt"),
			wantTrace: [2]string{"/folder1/folder2/test1.txt", "/copy1/folder2/test1.txt"},
		},
		{
			name: "relative_regex",
			setup: func(t *testing.T, r *resource.Resource) {
				r.Paths = []rule.Rule{regex(t, "folder1/([^/]+)", "copy1/copy$1")}
			},
			want: filepath.Join(wd, "copy1", "copyfolder2", "test1.txt"),
		},
		{
			name: "chained_rules",
			setup: func(t *testing.T, r *resource.Resource) {
				r.Paths = []rule.Rule{
					literal(t, "folder1", "a"),
					literal(t, "a/folder2", "b"),
				}
			},
			want: filepath.Join(wd, "b", "test1.txt"),
		},
		{
			name: "literal_rule_is_normalized",
			setup: func(t *testing.T, r *resource.Resource) {
				r.Paths = []rule.Rule{literal(t, `folder1\.\folder2`, `moved\here`)}
			},
			want: filepath.Join(wd, "moved", "here", "test1.txt"),
		},
		{
			name: "literal_rule_not_normalized_when_disabled",
			setup: func(t *testing.T, r *resource.Resource) {
				r.NormalizePath = false
				r.Paths = []rule.Rule{literal(t, `folder1\.\folder2`, `moved`)}
			},
			want: src,
		},
		{
			name: "full_path_mode",
			setup: func(t *testing.T, r *resource.Resource) {
				r.WorkOnFullPath = true
				r.Paths = []rule.Rule{literal(t, "/work/target/folder1", "/work/out")}
			},
			want: filepath.FromSlash("/work/out/folder2/test1.txt"),
		},
		{
			name: "full_path_mode_may_leave_working_dir",
			setup: func(t *testing.T, r *resource.Resource) {
				r.WorkOnFullPath = true
				r.Paths = []rule.Rule{literal(t, "/work/target", "/elsewhere")}
			},
			want: filepath.FromSlash("/elsewhere/folder1/folder2/test1.txt"),
		},
		{
			name: "full_path_mode_relative_result",
			setup: func(t *testing.T, r *resource.Resource) {
				r.WorkOnFullPath = true
				r.Paths = []rule.Rule{literal(t, "/work/target/", "rel/")}
			},
			expectError: true,
		},
		{
			name: "unsafe_relative_destination",
			setup: func(t *testing.T, r *resource.Resource) {
				r.Paths = []rule.Rule{regex(t, "^/folder1", "/../../escaped")}
			},
			expectError: true,
		},
		{
			name: "destination_is_working_dir",
			setup: func(t *testing.T, r *resource.Resource) {
				r.Paths = []rule.Rule{regex(t, ".*", "/")}
			},
			expectError: true,
		},
		{
			name: "no_op_rule",
			setup: func(t *testing.T, r *resource.Resource) {
				r.Paths = []rule.Rule{literal(t, "folder1", "folder1")}
			},
			want: src,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resource.New()
			if tt.setup != nil {
				tt.setup(t, res)
			}

			var trace [2]string
			r := &Resolver{Trace: func(before, after string) {
				trace = [2]string{before, after}
			}}

			got, err := r.Resolve(res, wd, src)
			if tt.expectError {
				require.Error(t, err)
				var cerr *rule.ConfigurationError
				assert.True(t, errors.As(err, &cerr), "expected a configuration error, got %T", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantTrace != [2]string{} {
				assert.Equal(t, tt.wantTrace, trace)
			}
		})
	}
}

// A relative rule and the full path rule carrying the working dir prefix
// must agree.
func TestResolve_PathModesAgree(t *testing.T) {
	wd := filepath.FromSlash("/work/target")
	files := []string{
		filepath.Join(wd, "folder1", "a.txt"),
		filepath.Join(wd, "folder1", "folder2", "b.txt"),
	}

	rel := resource.New()
	rel.Paths = []rule.Rule{literal(t, "/folder1/", "/copy/")}

	full := resource.New()
	full.WorkOnFullPath = true
	full.Paths = []rule.Rule{literal(t, "/work/target/folder1/", "/work/target/copy/")}

	for _, f := range files {
		a, err := Resolve(rel, wd, f)
		require.NoError(t, err)
		b, err := Resolve(full, wd, f)
		require.NoError(t, err)
		assert.Equal(t, a, b, f)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a/b", "a/b"},
		{`a\b\c`, "a/b/c"},
		{"/a/./b/../c", "/a/c"},
		{"folder1/", "folder1/"},
		{"/", "/"},
		{"a//b", "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
