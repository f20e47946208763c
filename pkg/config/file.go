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

package config

import (
	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/rule"
	"github.com/walteh/rescopy/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// 🔄 RuleSpec is a rule as written in a config file
type RuleSpec struct {
	From  *string `json:"from" yaml:"from"`
	To    *string `json:"to" yaml:"to"`
	Regex bool    `json:"regex,omitempty" yaml:"regex,omitempty"`
}

// 📦 ResourceSpec is a resource as written in a config file. Pointer
// fields are nil when the key is absent so defaults can apply.
type ResourceSpec struct {
	ID              string     `json:"id,omitempty" yaml:"id,omitempty"`
	Directory       string     `json:"directory,omitempty" yaml:"directory,omitempty"`
	Includes        []string   `json:"includes,omitempty" yaml:"includes,omitempty"`
	Excludes        []string   `json:"excludes,omitempty" yaml:"excludes,omitempty"`
	Charset         *string    `json:"charset,omitempty" yaml:"charset,omitempty"`
	Move            *bool      `json:"move,omitempty" yaml:"move,omitempty"`
	WorkOnFullPath  *bool      `json:"work_on_full_path,omitempty" yaml:"work_on_full_path,omitempty"`
	NormalizePath   *bool      `json:"normalize_path,omitempty" yaml:"normalize_path,omitempty"`
	ReplaceExisting *bool      `json:"replace_existing,omitempty" yaml:"replace_existing,omitempty"`
	DefaultExcludes *bool      `json:"default_excludes,omitempty" yaml:"default_excludes,omitempty"`
	Paths           []RuleSpec `json:"paths,omitempty" yaml:"paths,omitempty"`
	Replaces        []RuleSpec `json:"replaces,omitempty" yaml:"replaces,omitempty"`
}

// 📄 File is the raw, uncompiled content of a project file
type File struct {
	DefaultDirectory string         `json:"default_directory,omitempty" yaml:"default_directory,omitempty"`
	Skip             bool           `json:"skip,omitempty" yaml:"skip,omitempty"`
	ShowFiles        bool           `json:"show_files,omitempty" yaml:"show_files,omitempty"`
	SamePathContent  string         `json:"same_path_content,omitempty" yaml:"same_path_content,omitempty"`
	Resources        []ResourceSpec `json:"resources" yaml:"resources"`
}

// 🏗️ Compile builds the runtime config, compiling rules and filling in defaults
func (f *File) Compile(baseDir string) (*Config, error) {
	policy, err := transfer.ParseSamePathPolicy(f.SamePathContent)
	if err != nil {
		return nil, errors.Errorf("same_path_content: %w", err)
	}

	cfg := &Config{
		BaseDir:          baseDir,
		DefaultDirectory: f.DefaultDirectory,
		Skip:             f.Skip,
		ShowFiles:        f.ShowFiles,
		SamePathContent:  policy,
		Resources:        make([]*resource.Resource, 0, len(f.Resources)),
	}

	for i, spec := range f.Resources {
		res, err := spec.Compile()
		if err != nil {
			return nil, errors.Errorf("resources[%d]: %w", i, err)
		}
		cfg.Resources = append(cfg.Resources, res)
	}
	return cfg, nil
}

// Compile turns the spec into a resource
func (s ResourceSpec) Compile() (*resource.Resource, error) {
	res := resource.New()
	if s.ID != "" {
		res.ID = s.ID
	}
	res.Directory = s.Directory
	res.Includes = s.Includes
	res.Excludes = s.Excludes
	if s.Charset != nil && *s.Charset != "" {
		res.Charset = *s.Charset
	}
	setBool(&res.Move, s.Move)
	setBool(&res.WorkOnFullPath, s.WorkOnFullPath)
	setBool(&res.NormalizePath, s.NormalizePath)
	setBool(&res.ReplaceExisting, s.ReplaceExisting)
	setBool(&res.DefaultExcludes, s.DefaultExcludes)

	paths, err := rule.Compile("paths", ruleSpecs(s.Paths))
	if err != nil {
		return nil, errors.Errorf("resource %s: %w", res.ID, err)
	}
	res.Paths = paths

	replaces, err := rule.Compile("replaces", ruleSpecs(s.Replaces))
	if err != nil {
		return nil, errors.Errorf("resource %s: %w", res.ID, err)
	}
	res.Replaces = replaces

	return res, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func ruleSpecs(in []RuleSpec) []rule.Spec {
	out := make([]rule.Spec, 0, len(in))
	for _, r := range in {
		out = append(out, rule.Spec{From: r.From, To: r.To, Regex: r.Regex})
	}
	return out
}
