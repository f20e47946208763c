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

package opts

import (
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints the final outcome of a command
type UserLogger struct {
	out io.Writer
	log zerolog.Logger
}

// 🎯 NewUserLogger creates a user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		out: out,
		log: *zerolog.Ctx(ctx),
	}
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	u.log.Warn().Msg(description)
}

// 📊 LogStateChange logs a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	pterm.Info.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "📦"}).Println(description)
	u.log.Info().Msg(description)
}
