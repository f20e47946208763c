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

package resource

import (
	"fmt"
	"strings"

	"github.com/walteh/rescopy/pkg/rule"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

const (
	DefaultID      = "undefined"
	DefaultCharset = "UTF-8"
)

// 📦 Resource is one unit of work: a directory scope plus the rules used to
// match, rewrite and transfer the files inside it.
//
// A Resource is built once from configuration and only read afterwards.
type Resource struct {
	ID              string
	Directory       string // empty means use the configured default directory
	Includes        []string
	Excludes        []string
	Charset         string
	Move            bool
	WorkOnFullPath  bool
	NormalizePath   bool
	ReplaceExisting bool
	DefaultExcludes bool        // skip SCM and editor files while enumerating
	Paths           []rule.Rule // destination path rewrites
	Replaces        []rule.Rule // content rewrites
}

// 🏭 New returns a resource with every field at its default
func New() *Resource {
	return &Resource{
		ID:              DefaultID,
		Charset:         DefaultCharset,
		NormalizePath:   true,
		DefaultExcludes: true,
	}
}

func (r *Resource) HasPathRules() bool {
	return len(r.Paths) > 0
}

func (r *Resource) HasContentRules() bool {
	return len(r.Replaces) > 0
}

// Operation is the verb shown for each transferred file
func (r *Resource) Operation() string {
	if r.Move {
		return "mv"
	}
	return "cp"
}

// 🔍 Validate reports problems that would otherwise only show up mid-run
func (r *Resource) Validate() error {
	for i, inc := range r.Includes {
		if strings.TrimSpace(inc) == "" {
			return errors.Errorf("resource %s: includes[%d] is empty", r.ID, i)
		}
	}
	for i, exc := range r.Excludes {
		if strings.TrimSpace(exc) == "" {
			return errors.Errorf("resource %s: excludes[%d] is empty", r.ID, i)
		}
	}
	if _, err := r.Encoding(); err != nil {
		return errors.Errorf("resource %s: %w", r.ID, err)
	}
	return nil
}

// Encoding resolves the resource charset
func (r *Resource) Encoding() (encoding.Encoding, error) {
	return LookupCharset(r.Charset)
}

// 🔤 LookupCharset resolves an IANA charset name, falling back to WHATWG
// encoding labels
func LookupCharset(name string) (encoding.Encoding, error) {
	if e, err := ianaindex.IANA.Encoding(name); err == nil && e != nil {
		return e, nil
	}
	if e, err := htmlindex.Get(name); err == nil {
		return e, nil
	}
	return nil, errors.Errorf("unsupported charset %q", name)
}

// 📝 String returns a one line summary
func (r *Resource) String() string {
	dir := r.Directory
	if dir == "" {
		dir = "<default>"
	}
	return fmt.Sprintf("%s [%s %s, %d path rules, %d content rules]",
		r.ID, r.Operation(), dir, len(r.Paths), len(r.Replaces))
}
