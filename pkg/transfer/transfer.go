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

// Package transfer puts matched files at their destination.
//
// Files without content rules are copied or moved as raw bytes. Files with
// content rules are decoded, rewritten and written out atomically. An
// existing destination is only replaced when the resource allows it.
package transfer

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/rescopy/pkg/fserr"
	"github.com/walteh/rescopy/pkg/log"
	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🚚 Transferer places a single matched file
type Transferer interface {
	// Transfer copies, moves or rewrites src to dst and reports what it did
	Transfer(ctx context.Context, res *resource.Resource, src, dst string) (Action, error)

	// Plan reports what Transfer would do without touching the tree. The
	// rewrite result is returned when the resource has content rules.
	Plan(ctx context.Context, res *resource.Resource, src, dst string) (Action, *text.Result, error)
}

// 🔧 Executor is the filesystem backed Transferer
type Executor struct {
	SamePath SamePathPolicy
}

var _ Transferer = (*Executor)(nil)

// 🏭 NewExecutor creates an executor with the given same path policy
func NewExecutor(policy SamePathPolicy) *Executor {
	return &Executor{SamePath: policy}
}

func (e *Executor) Plan(ctx context.Context, res *resource.Resource, src, dst string) (Action, *text.Result, error) {
	src, dst = filepath.Clean(src), filepath.Clean(dst)

	if src == dst {
		if !res.HasContentRules() || e.SamePath == SamePathSkip {
			return ActionUnchanged, nil, nil
		}
		result, err := text.Rewrite(ctx, res, src)
		if err != nil {
			return ActionUnchanged, nil, err
		}
		if !result.WasModified {
			return ActionUnchanged, result, nil
		}
		return ActionRewrittenInPlace, result, nil
	}

	if err := checkConflict(res, dst); err != nil {
		return ActionUnchanged, nil, err
	}

	if res.HasContentRules() {
		result, err := text.Rewrite(ctx, res, src)
		if err != nil {
			return ActionUnchanged, nil, err
		}
		return ActionRewritten, result, nil
	}

	if res.Move {
		return ActionMoved, nil, nil
	}
	return ActionCopied, nil, nil
}

func (e *Executor) Transfer(ctx context.Context, res *resource.Resource, src, dst string) (Action, error) {
	logger := zerolog.Ctx(ctx)
	src, dst = filepath.Clean(src), filepath.Clean(dst)

	if src == dst {
		return e.rewriteInPlace(ctx, res, src)
	}

	if err := checkConflict(res, dst); err != nil {
		return ActionUnchanged, err
	}

	info, err := os.Stat(src)
	if err != nil {
		return ActionUnchanged, &fserr.IOError{Op: "stat", Resource: res.ID, Path: src, Err: err}
	}

	// rewrite before touching the destination so a decode failure leaves it as is
	var content []byte
	if res.HasContentRules() {
		content, err = text.Transform(ctx, res, src)
		if err != nil {
			return ActionUnchanged, err
		}
	}

	if res.ReplaceExisting {
		if err := removeExisting(dst); err != nil {
			return ActionUnchanged, &fserr.IOError{Op: "delete", Resource: res.ID, Path: dst, Err: err}
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return ActionUnchanged, &fserr.IOError{Op: "mkdir", Resource: res.ID, Path: filepath.Dir(dst), Err: err}
	}

	if !res.HasContentRules() {
		if res.Move {
			if err := moveFile(ctx, src, dst, info); err != nil {
				return ActionUnchanged, &fserr.IOError{Op: "move", Resource: res.ID, Path: src, Err: err}
			}
			return ActionMoved, nil
		}
		if err := copyFile(src, dst, info); err != nil {
			return ActionUnchanged, &fserr.IOError{Op: "copy", Resource: res.ID, Path: src, Err: err}
		}
		return ActionCopied, nil
	}

	if err := writeFileAtomic(dst, content, info.Mode().Perm()); err != nil {
		return ActionUnchanged, &fserr.IOError{Op: "write", Resource: res.ID, Path: dst, Err: err}
	}

	if res.Move {
		if err := os.Remove(src); err != nil {
			logger.Debug().Err(err).Str("file", src).Msg("source delete failed")
			log.FromContext(ctx).Warningf("could not delete %s after rewriting it: %v", src, err)
		}
	}

	return ActionRewritten, nil
}

func (e *Executor) rewriteInPlace(ctx context.Context, res *resource.Resource, path string) (Action, error) {
	logger := zerolog.Ctx(ctx)

	if !res.HasContentRules() {
		return ActionUnchanged, nil
	}
	if e.SamePath == SamePathSkip {
		logger.Debug().Str("file", path).Msg("destination is the source, skipping rewrite")
		return ActionUnchanged, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return ActionUnchanged, &fserr.IOError{Op: "stat", Resource: res.ID, Path: path, Err: err}
	}

	result, err := text.Rewrite(ctx, res, path)
	if err != nil {
		return ActionUnchanged, err
	}
	if !result.WasModified {
		return ActionUnchanged, nil
	}

	if err := writeFileAtomic(path, result.Modified, info.Mode().Perm()); err != nil {
		return ActionUnchanged, &fserr.IOError{Op: "write", Resource: res.ID, Path: path, Err: err}
	}
	return ActionRewrittenInPlace, nil
}

func checkConflict(res *resource.Resource, dst string) error {
	_, err := os.Lstat(dst)
	switch {
	case err == nil:
		if !res.ReplaceExisting {
			return &fserr.FileExistsError{Path: dst}
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return &fserr.IOError{Op: "stat", Resource: res.ID, Path: dst, Err: err}
	}
}

func removeExisting(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// 🔒 writeFileAtomic writes content next to path and renames it into place
func writeFileAtomic(path string, content []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// copyFile copies raw bytes keeping the source mode and modification time
func copyFile(src, dst string, info fs.FileInfo) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, source); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("copying file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing destination file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting modification time: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming destination file: %w", err)
	}
	return nil
}

// moveFile renames src to dst, falling back to copy and delete when the
// rename fails (for example across devices)
func moveFile(ctx context.Context, src, dst string, info fs.FileInfo) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	zerolog.Ctx(ctx).Debug().Err(err).Str("file", src).Msg("rename failed, copying instead")

	if err := copyFile(src, dst, info); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		os.Remove(dst)
		return errors.Errorf("deleting source after copy: %w", err)
	}
	return nil
}
