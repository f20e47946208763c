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

// Package fserr holds the error kinds raised while touching the file tree.
// Match them with errors.As.
package fserr

import (
	"fmt"
	"strings"
)

// 📛 FileExistsError is returned when a destination already exists and the
// resource does not allow replacing it. It aborts the whole run.
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("destination '%s' already exists", e.Path)
}

// 💥 IOError wraps a failed read, write, move or delete with the resource
// and file it happened on
type IOError struct {
	Op       string // what was attempted, e.g. "read", "move", "decode"
	Resource string // resource id, may be empty
	Path     string
	Err      error
}

func (e *IOError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Resource != "" {
		fmt.Fprintf(&b, " (resource %s)", e.Resource)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// 🧹 CleanupError is returned when pruning empty directories fails. It only
// happens after every transfer of the resource succeeded.
type CleanupError struct {
	Dir string
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("could not cleanup empty directories under %s: %v", e.Dir, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}
