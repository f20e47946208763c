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
	"regexp"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// expandTemplate rewrites a replacement string into the ${...} form that
// regexp.Expand understands.
//
// $n consumes the longest run of digits that still names a group of re, so
// "m$1d" is group 1 followed by a literal "d". ${name} refers to a named
// group. A backslash makes the next character literal.
func expandTemplate(re *regexp.Regexp, replacement string) (string, error) {
	groups := re.NumSubexp()

	var b strings.Builder
	for i := 0; i < len(replacement); i++ {
		c := replacement[i]
		switch c {
		case '\\':
			i++
			if i >= len(replacement) {
				return "", errors.New("character to be escaped is missing")
			}
			if replacement[i] == '$' {
				b.WriteString("$$")
			} else {
				b.WriteByte(replacement[i])
			}
		case '$':
			i++
			if i >= len(replacement) {
				return "", errors.New("illegal group reference: group index is missing")
			}

			if replacement[i] == '{' {
				end := strings.IndexByte(replacement[i:], '}')
				if end < 0 {
					return "", errors.New("named capturing group is missing trailing '}'")
				}
				name := replacement[i+1 : i+end]
				if name == "" {
					return "", errors.New("named capturing group has 0 length name")
				}
				if re.SubexpIndex(name) < 0 {
					return "", errors.Errorf("no group with name {%s}", name)
				}
				b.WriteString("${" + name + "}")
				i += end
				continue
			}

			if !isDigit(replacement[i]) {
				return "", errors.Errorf("illegal group reference at offset %d", i-1)
			}
			n := int(replacement[i] - '0')
			if n > groups {
				return "", errors.Errorf("no group %d", n)
			}
			for i+1 < len(replacement) && isDigit(replacement[i+1]) {
				next := n*10 + int(replacement[i+1]-'0')
				if next > groups {
					break
				}
				n = next
				i++
			}
			b.WriteString("${" + strconv.Itoa(n) + "}")
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
