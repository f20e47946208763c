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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/walteh/rescopy/cmd/rescopy/opts"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	ctx = newLogger(os.Stderr, false).WithContext(ctx)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		opts.NewUserLogger(ctx, os.Stderr).LogValidation(false, "rescopy failed", err)
		cancel()
		os.Exit(1)
	}
	cancel()
}
