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

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/rescopy/pkg/operation"
	"github.com/walteh/rescopy/pkg/resource"
	"github.com/walteh/rescopy/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// DefaultFileNames are tried in order when no config path is given
var DefaultFileNames = []string{".rescopy.yaml", ".rescopy.yml", ".rescopy.json", ".rescopy.hcl"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the raw config from bytes
	Parse(ctx context.Context, data []byte) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is a compiled, validated project file
type Config struct {
	// BaseDir anchors relative resource directories. Load sets it to the
	// absolute directory holding the config file.
	BaseDir          string
	DefaultDirectory string
	Skip             bool
	ShowFiles        bool
	SamePathContent  transfer.SamePathPolicy
	Resources        []*resource.Resource
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	raw, err := Parse(ctx, path, data)
	if err != nil {
		return nil, err
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Errorf("resolving base dir: %w", err)
	}

	cfg, err := raw.Compile(baseDir)
	if err != nil {
		return nil, errors.Errorf("compiling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Str("base_dir", cfg.BaseDir).
		Int("resources", len(cfg.Resources)).
		Msg("configuration loaded")

	return cfg, nil
}

// 📝 Parse decodes data with the parser registered for filename
func Parse(ctx context.Context, filename string, data []byte) (*File, error) {
	p := GetParser(filename)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", filename)
	}

	raw, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	return raw, nil
}

// 🔍 Find returns the first default config file present in dir
func Find(dir string) (string, error) {
	for _, name := range DefaultFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.Errorf("no config file found in %s (tried %v)", dir, DefaultFileNames)
}

// 🔍 Validate checks every resource
func (cfg *Config) Validate() error {
	if cfg.BaseDir == "" || !filepath.IsAbs(cfg.BaseDir) {
		return errors.Errorf("base dir %q must be absolute", cfg.BaseDir)
	}
	for _, res := range cfg.Resources {
		if err := res.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ⚙️ Settings returns the run settings described by the file
func (cfg *Config) Settings() operation.Settings {
	return operation.Settings{
		BaseDir:          cfg.BaseDir,
		DefaultDirectory: cfg.DefaultDirectory,
		Skip:             cfg.Skip,
		ShowFiles:        cfg.ShowFiles,
		SamePathContent:  cfg.SamePathContent,
	}
}
