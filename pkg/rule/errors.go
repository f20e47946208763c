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
	"strings"
)

// ❌ ConfigurationError reports a rewrite rule that cannot be used.
// It is always fatal.
type ConfigurationError struct {
	Field  string // rule list position, e.g. "paths[0]"; empty when unknown
	From   string
	To     string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Field != "" {
		fmt.Fprintf(&b, " in %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.From != "" || e.To != "" {
		fmt.Fprintf(&b, " (from=%q, to=%q)", e.From, e.To)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
