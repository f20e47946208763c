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

package rule

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind tells literal rules apart from regular expression rules
type Kind int

const (
	KindLiteral Kind = iota
	KindRegex
)

// String returns the label used in resource reports
func (k Kind) String() string {
	switch k {
	case KindRegex:
		return "regex"
	default:
		return "replace"
	}
}

// 🔄 Rule is a single ordered from -> to rewrite of a string.
//
// The only implementations are Literal and Regex.
type Rule interface {
	// Apply rewrites every occurrence of the rule in input
	Apply(input string) string
	From() string
	To() string
	Kind() Kind

	isRule()
}

// 📝 Spec is the raw form of a rule as it comes out of a config file.
// A nil From or To means the key was absent.
type Spec struct {
	From  *string
	To    *string
	Regex bool
}

// 🔤 Literal replaces every occurrence of a fixed substring
type Literal struct {
	from string
	to   string
}

// 🧩 Regex replaces every match of a regular expression
type Regex struct {
	from     string
	to       string
	re       *regexp.Regexp
	template string
}

var (
	_ Rule = (*Literal)(nil)
	_ Rule = (*Regex)(nil)
)

// 🏭 New validates a raw spec and builds the matching rule
func New(spec Spec) (Rule, error) {
	if spec.From == nil || spec.To == nil {
		return nil, &ConfigurationError{
			From:   deref(spec.From),
			To:     deref(spec.To),
			Reason: "from and to cannot be null",
		}
	}
	if spec.Regex {
		r, err := NewRegex(*spec.From, *spec.To)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	r, err := NewLiteral(*spec.From, *spec.To)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewLiteral creates a literal substring rule
func NewLiteral(from, to string) (*Literal, error) {
	if err := checkEmpty(from, to); err != nil {
		return nil, err
	}
	return &Literal{from: from, to: to}, nil
}

// NewRegex compiles pattern and creates a regular expression rule.
// Group references in replacement use $n and ${name}; a backslash escapes
// the next character.
func NewRegex(pattern, replacement string) (*Regex, error) {
	if err := checkEmpty(pattern, replacement); err != nil {
		return nil, err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ConfigurationError{From: pattern, To: replacement, Reason: "invalid pattern", Err: err}
	}

	template, err := expandTemplate(re, replacement)
	if err != nil {
		return nil, &ConfigurationError{From: pattern, To: replacement, Reason: "invalid replacement", Err: err}
	}

	return &Regex{from: pattern, to: replacement, re: re, template: template}, nil
}

func checkEmpty(from, to string) error {
	if from == "" || to == "" {
		return &ConfigurationError{From: from, To: to, Reason: "from and to cannot be empty"}
	}
	return nil
}

func (r *Literal) Apply(input string) string {
	if r.from == r.to {
		return input
	}
	return strings.ReplaceAll(input, r.from, r.to)
}

func (r *Literal) From() string { return r.from }
func (r *Literal) To() string   { return r.to }
func (r *Literal) Kind() Kind   { return KindLiteral }
func (r *Literal) isRule()      {}

func (r *Literal) String() string { return Describe(r) }

func (r *Regex) Apply(input string) string {
	if r.from == r.to {
		return input
	}
	return r.re.ReplaceAllString(input, r.template)
}

func (r *Regex) From() string { return r.from }
func (r *Regex) To() string   { return r.to }
func (r *Regex) Kind() Kind   { return KindRegex }
func (r *Regex) isRule()      {}

func (r *Regex) String() string { return Describe(r) }

// 🔁 ApplyAll folds rules over input left to right; each rule sees the
// output of the one before it
func ApplyAll(input string, rules []Rule) string {
	out := input
	for _, r := range rules {
		out = r.Apply(out)
	}
	return out
}

// 🏗️ Compile builds an ordered rule chain from raw specs. field names the
// list in error messages, e.g. "paths" yields "paths[1]".
func Compile(field string, specs []Spec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := New(spec)
		if err != nil {
			var cerr *ConfigurationError
			if errors.As(err, &cerr) {
				cerr.Field = fmt.Sprintf("%s[%d]", field, i)
			}
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// 📝 Describe formats a rule the way resource reports print it
func Describe(r Rule) string {
	return fmt.Sprintf("%s -> %s (%s)", r.From(), r.To(), r.Kind())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
