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

package transfer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rescopy/pkg/fserr"
	"github.com/walteh/rescopy/pkg/log"
	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

const sample = "this line is to be modified\n"

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func replaces(t *testing.T) []rule.Rule {
	t.Helper()
	r, err := rule.NewRegex("to be m([^d]+)d", "has been m$1d")
	require.NoError(t, err)
	return []rule.Rule{r}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestExecutor_Transfer(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T, res *resource.Resource)
		existing     string // destination content before the transfer
		sameDst      bool
		policy       SamePathPolicy
		wantAction   Action
		wantDst      string
		wantSrcGone  bool
		wantExistErr bool
	}{
		{
			name:       "copy",
			wantAction: ActionCopied,
			wantDst:    sample,
		},
		{
			name:        "move",
			setup:       func(t *testing.T, res *resource.Resource) { res.Move = true },
			wantAction:  ActionMoved,
			wantDst:     sample,
			wantSrcGone: true,
		},
		{
			name:       "copy_and_rewrite",
			setup:      func(t *testing.T, res *resource.Resource) { res.Replaces = replaces(t) },
			wantAction: ActionRewritten,
			wantDst:    "this line is has been modified\n",
		},
		{
			name: "move_and_rewrite",
			setup: func(t *testing.T, res *resource.Resource) {
				res.Move = true
				res.Replaces = replaces(t)
			},
			wantAction:  ActionRewritten,
			wantDst:     "this line is has been modified\n",
			wantSrcGone: true,
		},
		{
			name:         "existing_destination_fails",
			existing:     "keep me\n",
			wantExistErr: true,
			wantDst:      "keep me\n",
		},
		{
			name:         "existing_destination_fails_with_content_rules",
			setup:        func(t *testing.T, res *resource.Resource) { res.Replaces = replaces(t) },
			existing:     "keep me\n",
			wantExistErr: true,
			wantDst:      "keep me\n",
		},
		{
			name:       "existing_destination_replaced",
			setup:      func(t *testing.T, res *resource.Resource) { res.ReplaceExisting = true },
			existing:   "old\n",
			wantAction: ActionCopied,
			wantDst:    sample,
		},
		{
			name:       "same_path_without_rules",
			sameDst:    true,
			wantAction: ActionUnchanged,
			wantDst:    sample,
		},
		{
			name:       "same_path_rewrite",
			setup:      func(t *testing.T, res *resource.Resource) { res.Replaces = replaces(t) },
			sameDst:    true,
			wantAction: ActionRewrittenInPlace,
			wantDst:    "this line is has been modified\n",
		},
		{
			name:       "same_path_skip",
			setup:      func(t *testing.T, res *resource.Resource) { res.Replaces = replaces(t) },
			sameDst:    true,
			policy:     SamePathSkip,
			wantAction: ActionUnchanged,
			wantDst:    sample,
		},
		{
			name: "same_path_move_with_rules_keeps_file",
			setup: func(t *testing.T, res *resource.Resource) {
				res.Move = true
				res.Replaces = replaces(t)
			},
			sameDst:    true,
			wantAction: ActionRewrittenInPlace,
			wantDst:    "this line is has been modified\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()

			src := filepath.Join(dir, "folder1", "test.txt")
			require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
			require.NoError(t, os.WriteFile(src, []byte(sample), 0640))

			dst := filepath.Join(dir, "copy1", "nested", "test.txt")
			if tt.sameDst {
				dst = src
			}
			if tt.existing != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
				require.NoError(t, os.WriteFile(dst, []byte(tt.existing), 0644))
			}

			res := resource.New()
			res.ID = tt.name
			if tt.setup != nil {
				tt.setup(t, res)
			}

			action, err := NewExecutor(tt.policy).Transfer(ctx, res, src, dst)
			if tt.wantExistErr {
				require.Error(t, err)
				var existsErr *fserr.FileExistsError
				require.True(t, errors.As(err, &existsErr))
				assert.Equal(t, dst, existsErr.Path)
				assert.Equal(t, tt.wantDst, readFile(t, dst))
				assert.Equal(t, sample, readFile(t, src))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantDst, readFile(t, dst))

			_, statErr := os.Stat(src)
			if tt.wantSrcGone {
				assert.True(t, os.IsNotExist(statErr), "source should be gone")
			} else {
				assert.NoError(t, statErr)
			}
		})
	}
}

func TestExecutor_CopyPreservesModeAndTime(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0750))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(dir, "out", "run.sh")
	action, err := NewExecutor(SamePathRewrite).Transfer(ctx, resource.New(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, ActionCopied, action)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime), "mtime %v", info.ModTime())
}

func TestExecutor_UndecodableLeavesDestination(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "bin.dat")
	require.NoError(t, os.WriteFile(src, []byte{0xc3, 0x28}, 0644))
	dst := filepath.Join(dir, "out.dat")
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	res := resource.New()
	res.ReplaceExisting = true
	res.Replaces = replaces(t)

	_, err := NewExecutor(SamePathRewrite).Transfer(ctx, res, src, dst)
	require.Error(t, err)
	var ioErr *fserr.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "old", readFile(t, dst))
}

func TestExecutor_RewrittenMoveKeepsUndeletableSource(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	src := filepath.Join(srcDir, "a.txt")
	dst := filepath.Join(dir, "dst", "a.txt")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	require.NoError(t, os.WriteFile(src, []byte(sample), 0644))
	require.NoError(t, os.Chmod(srcDir, 0555))
	t.Cleanup(func() { _ = os.Chmod(srcDir, 0755) })

	color.NoColor = true
	defer func() { color.NoColor = false }()
	console := &bytes.Buffer{}
	ctx := log.NewContext(testContext(t), log.New(console, zerolog.Nop()))

	res := resource.New()
	res.Move = true
	res.Replaces = replaces(t)

	action, err := NewExecutor(SamePathRewrite).Transfer(ctx, res, src, dst)
	require.NoError(t, err, "a failed source delete is not fatal")
	assert.Equal(t, ActionRewritten, action)
	assert.Equal(t, "this line is has been modified\n", readFile(t, dst))
	assert.Equal(t, sample, readFile(t, src), "source stays when it cannot be deleted")
	assert.Contains(t, console.String(), "could not delete "+src)
}

func TestExecutor_Plan(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte(sample), 0644))
	dst := filepath.Join(dir, "b", "a.txt")

	res := resource.New()
	res.Move = true
	res.Replaces = replaces(t)

	action, result, err := NewExecutor(SamePathRewrite).Plan(ctx, res, src, dst)
	require.NoError(t, err)
	assert.Equal(t, ActionRewritten, action)
	require.NotNil(t, result)
	assert.Equal(t, "this line is has been modified\n", string(result.Modified))

	// nothing was touched
	assert.Equal(t, sample, readFile(t, src))
	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err))

	res.Replaces = nil
	action, result, err = NewExecutor(SamePathRewrite).Plan(ctx, res, src, dst)
	require.NoError(t, err)
	assert.Equal(t, ActionMoved, action)
	assert.Nil(t, result)

	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
	require.NoError(t, os.WriteFile(dst, nil, 0644))
	_, _, err = NewExecutor(SamePathRewrite).Plan(ctx, res, src, dst)
	var existsErr *fserr.FileExistsError
	require.True(t, errors.As(err, &existsErr))
}

func TestParseSamePathPolicy(t *testing.T) {
	tests := []struct {
		in          string
		want        SamePathPolicy
		expectError bool
	}{
		{in: "", want: SamePathRewrite},
		{in: "rewrite", want: SamePathRewrite},
		{in: " Skip ", want: SamePathSkip},
		{in: "overwrite", expectError: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSamePathPolicy(tt.in)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var p SamePathPolicy
	require.NoError(t, p.Set("skip"))
	assert.Equal(t, "skip", p.String())
}
