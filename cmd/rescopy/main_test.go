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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
resources:
  - id: stage
    directory: work
    includes: ["folder1/**"]
    paths:
      - { from: folder1, to: copy1 }
    replaces:
      - { from: "to be m([^d]+)d", to: "has been m$1d", regex: true }
`

// 🧪 setupProject writes a config and a work tree into a temp dir
func setupProject(t *testing.T) (context.Context, string) {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, "work", "folder1", "folder2", "test1.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.WriteFile(src, []byte("this one is to be mended\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".rescopy.yaml"), []byte(testConfig), 0644))

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	return ctx, dir
}

func execute(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	tests := []struct {
		name        string
		args        func(dir string) []string
		wantErr     string
		wantOutput  string
		wantCopied  bool
		wantContent string
	}{
		{
			name:        "run_by_default",
			args:        func(dir string) []string { return []string{"-c", filepath.Join(dir, ".rescopy.yaml")} },
			wantOutput:  "1 resources, 1 files (0 copied, 0 moved, 1 rewritten",
			wantCopied:  true,
			wantContent: "this one has been mended\n",
		},
		{
			name:        "run_subcommand",
			args:        func(dir string) []string { return []string{"run", "-c", filepath.Join(dir, ".rescopy.yaml")} },
			wantCopied:  true,
			wantContent: "this one has been mended\n",
		},
		{
			name:       "dry_run_writes_nothing",
			args:       func(dir string) []string { return []string{"--dry-run", "-c", filepath.Join(dir, ".rescopy.yaml")} },
			wantOutput: "dry run: 1 resources",
		},
		{
			name:       "skip_flag_overrides_file",
			args:       func(dir string) []string { return []string{"run", "--skip", "-c", filepath.Join(dir, ".rescopy.yaml")} },
			wantOutput: "skipping",
		},
		{
			name: "base_dir_flag",
			args: func(dir string) []string {
				return []string{"-c", filepath.Join(dir, ".rescopy.yaml"), "--base-dir", filepath.Join(dir, "missing")}
			},
			wantErr: "running resources",
		},
		{
			name:    "missing_explicit_config",
			args:    func(dir string) []string { return []string{"-c", filepath.Join(dir, "nope.yaml")} },
			wantErr: "loading config",
		},
		{
			name:    "bad_policy_flag",
			args:    func(dir string) []string { return []string{"--same-path-content", "sometimes"} },
			wantErr: "unknown same path policy",
		},
		{
			name:       "validate",
			args:       func(dir string) []string { return []string{"validate", "-c", filepath.Join(dir, ".rescopy.yaml")} },
			wantOutput: "stage",
		},
		{
			name:       "version",
			args:       func(dir string) []string { return []string{"version"} },
			wantOutput: "🚀 rescopy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, dir := setupProject(t)

			out, err := execute(ctx, tt.args(dir)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			if tt.wantOutput != "" {
				assert.Contains(t, out, tt.wantOutput)
			}

			dst := filepath.Join(dir, "work", "copy1", "folder2", "test1.txt")
			got, statErr := os.ReadFile(dst)
			if !tt.wantCopied {
				assert.True(t, os.IsNotExist(statErr), "%s should not exist", dst)
				return
			}
			require.NoError(t, statErr)
			assert.Equal(t, tt.wantContent, string(got))
			assert.FileExists(t, filepath.Join(dir, "work", "folder1", "folder2", "test1.txt"), "copy keeps the source")
		})
	}
}

func TestBuildInfo_Render(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		info BuildInfo
		want []string
	}{
		{
			name: "stamped",
			info: BuildInfo{Version: "v1.2.3", Go: "go1.23.5", Platform: "linux/amd64", Commit: "abc123", Dirty: true, Built: "2025-01-01T00:00:00Z"},
			want: []string{"🚀 rescopy v1.2.3", "abc123 (dirty)", "2025-01-01T00:00:00Z", "linux/amd64"},
		},
		{
			name: "unstamped",
			info: BuildInfo{Version: "dev", Go: "go1.23.5", Platform: "darwin/arm64"},
			want: []string{"🚀 rescopy dev", "unknown", "darwin/arm64"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.info.Render(&buf))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	ctx, _ := setupProject(t)

	out, err := execute(ctx, "version", "--json")
	require.NoError(t, err)

	var got BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.Version)
	assert.Equal(t, ReadBuildInfo().Go, got.Go)
}
