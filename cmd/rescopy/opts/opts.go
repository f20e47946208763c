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

// Package opts holds the options shared by every rescopy command.
package opts

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rescopy/pkg/config"
)

// DefaultConfigFile is the --config default
const DefaultConfigFile = ".rescopy.yaml"

// 🎛️ RootOpts are the persistent flags of the root command
type RootOpts struct {
	ConfigFile string
	Debug      bool
	BaseDir    string

	// ConfigExplicit is set when --config was passed. Without it a missing
	// default file falls back to searching the working directory.
	ConfigExplicit bool

	// Stdout receives console output. Nil means os.Stdout.
	Stdout io.Writer
}

// Console returns the writer for user-facing output
func (o *RootOpts) Console() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

// 🔍 ConfigPath returns the config file to load
func (o *RootOpts) ConfigPath() (string, error) {
	name := o.ConfigFile
	if name == "" {
		name = DefaultConfigFile
	}
	if o.ConfigExplicit {
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	found, err := config.Find(".")
	if err != nil {
		return "", errors.Errorf("locating config: %w", err)
	}
	return found, nil
}

// 🎯 Load loads the config and applies --base-dir
func (o *RootOpts) Load(ctx context.Context) (*config.Config, error) {
	path, err := o.ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	if o.BaseDir != "" {
		abs, err := filepath.Abs(o.BaseDir)
		if err != nil {
			return nil, errors.Errorf("resolving --base-dir: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("base_dir", abs).Msg("overriding base dir")
		cfg.BaseDir = abs
	}

	return cfg, nil
}
