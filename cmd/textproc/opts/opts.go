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

// Package opts holds the state shared between the root command and its
// sub-commands.
package opts

import (
	"context"
	"io"
	"os"

	"github.com/walteh/textproc/pkg/config"
	"github.com/walteh/textproc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🔧 RootOpts is filled in by the root command's persistent flags
type RootOpts struct {
	// ConfigFile is the explicit --config path, "" to discover one
	ConfigFile string
	// Debug enables debug-level structured logs
	Debug bool
	// Dir is searched for a default config file
	Dir string

	// Stdout receives results, Stderr receives progress and summaries
	Stdout io.Writer
	Stderr io.Writer

	UserLogger *log.UserLogger
	Console    *log.Logger
}

// 📂 LoadConfig returns the file configuration layered on the defaults.
// Without --config the first default file in Dir is used, if any.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	path := o.ConfigFile
	if path == "" {
		dir := o.Dir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, errors.Errorf("getting working directory: %w", err)
			}
			dir = wd
		}
		path = config.Discover(dir)
	}
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
