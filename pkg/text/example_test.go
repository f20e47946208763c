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

package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/rescopy/pkg/rule"
	"github.com/walteh/rescopy/pkg/text"
	"golang.org/x/text/encoding/unicode"
)

func ExampleCharsetReplacer_ReplaceText() {
	replacer := text.NewCharsetReplacer()

	world, _ := rule.NewLiteral("World", "Universe")
	hello, _ := rule.NewLiteral("Hello", "Hi")

	result, err := replacer.ReplaceText(context.Background(), strings.NewReader("Hello World!"), unicode.UTF8, []rule.Rule{world, hello})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Original: %s\n", result.Original)
	fmt.Printf("Modified: %s\n", result.Modified)
	fmt.Printf("Rules applied: %d\n", result.RulesApplied)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: Hello World!
	// Modified: Hi Universe!
	// Rules applied: 2
	// Was Modified: true
}

func ExampleDiff() {
	fmt.Print(text.Diff("keep\nold\n", "keep\nnew\n"))

	// Output:
	//   keep
	// - old
	// + new
}
