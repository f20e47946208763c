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

// Package prune removes directories left empty after files were moved out.
package prune

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/rescopy/pkg/enumerate"
	"github.com/walteh/rescopy/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// 🧹 Prune deletes every empty directory under dir, deepest first, and dir
// itself when it ends up empty. Symlinks are never followed and a missing
// dir is not an error. Version control directories (enumerate.SCMDirs) are
// left alone and keep their parent. It returns the removed directories in
// removal order.
func Prune(ctx context.Context, dir string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Lstat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &fserr.CleanupError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, nil
	}

	var removed []string
	if _, err := prune(dir, &removed); err != nil {
		return removed, &fserr.CleanupError{Dir: dir, Err: err}
	}

	logger.Debug().Str("dir", dir).Int("removed", len(removed)).Msg("pruned empty directories")
	return removed, nil
}

func prune(dir string, removed *[]string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", dir, err)
	}

	empty := true
	for _, e := range entries {
		if !e.IsDir() || enumerate.IsSCMDir(e.Name()) {
			empty = false
			continue
		}
		gone, err := prune(filepath.Join(dir, e.Name()), removed)
		if err != nil {
			return false, err
		}
		if !gone {
			empty = false
		}
	}

	if !empty {
		return false, nil
	}

	if err := os.Remove(dir); err != nil {
		return false, errors.Errorf("removing %s: %w", dir, err)
	}
	*removed = append(*removed, dir)
	return true, nil
}
