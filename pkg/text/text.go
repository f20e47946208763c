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

// Package text rewrites file content with a resource's replace rules.
//
// Content is decoded strictly: bytes that do not survive a decode/encode
// round trip through the resource charset are rejected rather than replaced.
package text

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/rescopy/pkg/fserr"
	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/rule"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// CharsetReplacer implements Replacer on top of golang.org/x/text encodings
type CharsetReplacer struct{}

var _ Replacer = (*CharsetReplacer)(nil)

// 🏭 NewCharsetReplacer creates a new CharsetReplacer
func NewCharsetReplacer() *CharsetReplacer {
	return &CharsetReplacer{}
}

func (r *CharsetReplacer) ReplaceText(ctx context.Context, content io.Reader, enc encoding.Encoding, rules []rule.Rule) (*Result, error) {
	original, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	decoded, err := decodeStrict(original, enc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Original: original,
		Modified: original,
	}

	current := decoded
	for _, rl := range rules {
		next := rl.Apply(current)
		if next != current {
			result.RulesApplied++
		}
		current = next
	}

	if current == decoded {
		return result, nil
	}

	encoded, _, err := transform.String(enc.NewEncoder(), current)
	if err != nil {
		return nil, errors.Errorf("encoding rewritten content: %w", err)
	}

	result.Modified = []byte(encoded)
	result.WasModified = !bytes.Equal(original, result.Modified)
	return result, nil
}

func decodeStrict(raw []byte, enc encoding.Encoding) (string, error) {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return "", errors.Errorf("decoding content: %w", err)
	}

	roundTrip, _, err := transform.Bytes(enc.NewEncoder(), decoded)
	if err != nil || !bytes.Equal(roundTrip, raw) {
		return "", errors.New("content is not valid in the configured charset")
	}
	return string(decoded), nil
}

// 📄 Rewrite reads sourceFile and runs the resource replace rules over it
func Rewrite(ctx context.Context, res *resource.Resource, sourceFile string) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	enc, err := res.Encoding()
	if err != nil {
		return nil, &fserr.IOError{Op: "decode", Resource: res.ID, Path: sourceFile, Err: err}
	}

	f, err := os.Open(sourceFile)
	if err != nil {
		return nil, &fserr.IOError{Op: "read", Resource: res.ID, Path: sourceFile, Err: err}
	}
	defer f.Close()

	result, err := NewCharsetReplacer().ReplaceText(ctx, f, enc, res.Replaces)
	if err != nil {
		return nil, &fserr.IOError{Op: "transform", Resource: res.ID, Path: sourceFile, Err: err}
	}

	logger.Debug().
		Str("file", sourceFile).
		Str("charset", res.Charset).
		Int("rules_applied", result.RulesApplied).
		Bool("modified", result.WasModified).
		Msg("rewrote content")

	return result, nil
}

// ✏️ Transform returns the rewritten bytes of sourceFile
func Transform(ctx context.Context, res *resource.Resource, sourceFile string) ([]byte, error) {
	result, err := Rewrite(ctx, res, sourceFile)
	if err != nil {
		return nil, err
	}
	return result.Modified, nil
}
