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

package text

import (
	"context"
	"io"

	"github.com/walteh/rescopy/pkg/rule"
	"golang.org/x/text/encoding"
)

// 📝 Result holds a content rewrite before and after the replace rules ran
type Result struct {
	// Original is the raw source bytes
	Original []byte

	// Modified is the rewritten content, encoded in the source charset
	Modified []byte

	// WasModified is true when at least one rule changed the text
	WasModified bool

	// RulesApplied counts the rules that changed the text
	RulesApplied int
}

// 🔄 Replacer rewrites textual content through an ordered rule chain
type Replacer interface {
	// ReplaceText decodes content with enc, applies rules in order and
	// encodes the result with enc again
	ReplaceText(ctx context.Context, content io.Reader, enc encoding.Encoding, rules []rule.Rule) (*Result, error)
}
