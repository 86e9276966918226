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
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data onto cfg, leaving unset fields untouched
	Parse(ctx context.Context, data []byte, cfg *Config) error

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

// DefaultFileNames are searched, in order, by Discover.
var DefaultFileNames = []string{".textproc.yaml", ".textproc.yml", ".textproc.json", ".textproc.hcl"}

// 🔎 Discover returns the first default config file in dir, or "".
func Discover(dir string) string {
	for _, name := range DefaultFileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// 🎯 Load reads path and overlays it on the defaults. The result is not yet
// validated; callers apply flag overrides first.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := Default()
	if err := LoadInto(ctx, path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the file at path onto cfg.
func LoadInto(ctx context.Context, path string, cfg *Config) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(strings.ToLower(path))
	if p == nil {
		return errors.Errorf("no parser found for file: %s", path)
	}

	if err := p.Parse(ctx, data, cfg); err != nil {
		return errors.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
