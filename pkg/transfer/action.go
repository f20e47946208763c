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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📊 Action is what happened to a single matched file
type Action int

const (
	ActionUnchanged        Action = iota // nothing was written
	ActionCopied                         // raw bytes copied to the destination
	ActionMoved                          // source renamed or copied then deleted
	ActionRewritten                      // rewritten content written to the destination
	ActionRewrittenInPlace               // source rewritten where it stands
)

// String returns a string representation of Action
func (a Action) String() string {
	switch a {
	case ActionCopied:
		return "copied"
	case ActionMoved:
		return "moved"
	case ActionRewritten:
		return "rewritten"
	case ActionRewrittenInPlace:
		return "rewritten in place"
	default:
		return "unchanged"
	}
}

// 🔁 SamePathPolicy decides what happens when a file with content rules
// resolves to its own path
type SamePathPolicy int

const (
	// SamePathRewrite transforms the file in place
	SamePathRewrite SamePathPolicy = iota
	// SamePathSkip leaves the file alone
	SamePathSkip
)

func (p SamePathPolicy) String() string {
	if p == SamePathSkip {
		return "skip"
	}
	return "rewrite"
}

// ParseSamePathPolicy accepts "rewrite", "skip" or "" (rewrite)
func ParseSamePathPolicy(s string) (SamePathPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rewrite":
		return SamePathRewrite, nil
	case "skip":
		return SamePathSkip, nil
	default:
		return SamePathRewrite, errors.Errorf("unknown same path policy %q (want rewrite or skip)", s)
	}
}

// Set implements pflag.Value
func (p *SamePathPolicy) Set(s string) error {
	v, err := ParseSamePathPolicy(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Type implements pflag.Value
func (p *SamePathPolicy) Type() string {
	return "policy"
}
