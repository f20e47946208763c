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
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
//
//	default_directory = "target"
//
//	resource "stage" {
//	  includes = ["folder1/**/*.txt"]
//	  path {
//	    from = "folder1"
//	    to   = "copy1"
//	  }
//	  replace {
//	    from  = "to be m([^d]+)d"
//	    to    = "has been m$1d"
//	    regex = true
//	  }
//	}
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclRule struct {
	From  *string `hcl:"from,optional"`
	To    *string `hcl:"to,optional"`
	Regex *bool   `hcl:"regex,optional"`
}

type hclResource struct {
	ID              string    `hcl:"id,label"`
	Directory       *string   `hcl:"directory,optional"`
	Includes        []string  `hcl:"includes,optional"`
	Excludes        []string  `hcl:"excludes,optional"`
	Charset         *string   `hcl:"charset,optional"`
	Move            *bool     `hcl:"move,optional"`
	WorkOnFullPath  *bool     `hcl:"work_on_full_path,optional"`
	NormalizePath   *bool     `hcl:"normalize_path,optional"`
	ReplaceExisting *bool     `hcl:"replace_existing,optional"`
	DefaultExcludes *bool     `hcl:"default_excludes,optional"`
	Paths           []hclRule `hcl:"path,block"`
	Replaces        []hclRule `hcl:"replace,block"`
}

type hclConfig struct {
	DefaultDirectory *string       `hcl:"default_directory,optional"`
	Skip             *bool         `hcl:"skip,optional"`
	ShowFiles        *bool         `hcl:"show_files,optional"`
	SamePathContent  *string       `hcl:"same_path_content,optional"`
	Resources        []hclResource `hcl:"resource,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	f := &File{
		DefaultDirectory: deref(hclCfg.DefaultDirectory),
		Skip:             deref(hclCfg.Skip),
		ShowFiles:        deref(hclCfg.ShowFiles),
		SamePathContent:  deref(hclCfg.SamePathContent),
	}

	for _, r := range hclCfg.Resources {
		f.Resources = append(f.Resources, ResourceSpec{
			ID:              r.ID,
			Directory:       deref(r.Directory),
			Includes:        r.Includes,
			Excludes:        r.Excludes,
			Charset:         r.Charset,
			Move:            r.Move,
			WorkOnFullPath:  r.WorkOnFullPath,
			NormalizePath:   r.NormalizePath,
			ReplaceExisting: r.ReplaceExisting,
			DefaultExcludes: r.DefaultExcludes,
			Paths:           convertRules(r.Paths),
			Replaces:        convertRules(r.Replaces),
		})
	}

	return f, nil
}

func convertRules(in []hclRule) []RuleSpec {
	out := make([]RuleSpec, 0, len(in))
	for _, r := range in {
		out = append(out, RuleSpec{From: r.From, To: r.To, Regex: deref(r.Regex)})
	}
	return out
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
