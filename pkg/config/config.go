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
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/walteh/textproc/pkg/prompt"
	"github.com/walteh/textproc/pkg/source"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultModel     = "llama3.2"
	DefaultOllamaURL = "http://localhost:11434"
	DefaultTimeout   = 5 * time.Minute
)

// ⏱️ Duration is a time.Duration that decodes from strings like "90s"
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return errors.Errorf("parsing duration: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ☁️ S3Args configures object storage access
type S3Args struct {
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"path_style,omitempty" yaml:"path_style,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Model      string   `json:"model" yaml:"model"`
	OllamaURL  string   `json:"ollama_url" yaml:"ollama_url"`
	Timeout    Duration `json:"timeout" yaml:"timeout"`
	Operation  string   `json:"operation,omitempty" yaml:"operation,omitempty"`
	Prompt     string   `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	Recursive  bool     `json:"recursive" yaml:"recursive"`
	Output     string   `json:"output,omitempty" yaml:"output,omitempty"`
	JSONL      bool     `json:"jsonl,omitempty" yaml:"jsonl,omitempty"`
	SkipCheck  bool     `json:"skip_check,omitempty" yaml:"skip_check,omitempty"`
	S3         S3Args   `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// 🏭 Default returns the built-in settings
func Default() *Config {
	return &Config{
		Model:      DefaultModel,
		OllamaURL:  DefaultOllamaURL,
		Timeout:    Duration(DefaultTimeout),
		Extensions: append([]string(nil), source.DefaultExtensions...),
		Recursive:  true,
	}
}

// 🔍 Validate checks the configuration and normalizes it in place
func (cfg *Config) Validate() error {
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		return errors.Errorf("model is required")
	}

	u, err := url.Parse(cfg.OllamaURL)
	if err != nil {
		return errors.Errorf("parsing ollama_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("ollama_url must be an http(s) url, got %q", cfg.OllamaURL)
	}
	cfg.OllamaURL = strings.TrimRight(cfg.OllamaURL, "/")

	if cfg.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", time.Duration(cfg.Timeout))
	}

	if cfg.Operation != "" && cfg.Prompt != "" {
		return errors.Errorf("operation %q and a custom prompt are mutually exclusive", cfg.Operation)
	}
	if _, err := cfg.Template(); err != nil {
		return err
	}

	cfg.Extensions = []string(source.NormalizeExtensions(cfg.Extensions))
	return nil
}

// 📝 Template returns the prompt template the run will use
func (cfg *Config) Template() (prompt.Template, error) {
	switch {
	case cfg.Operation != "":
		return prompt.ForOperation(prompt.Operation(cfg.Operation))
	case cfg.Prompt != "":
		return prompt.Custom(cfg.Prompt)
	default:
		return prompt.ForOperation(prompt.OperationDefault)
	}
}

// OperationName names the prompt in use, "custom" for a user template.
func (cfg *Config) OperationName() string {
	switch {
	case cfg.Operation != "":
		return cfg.Operation
	case cfg.Prompt != "":
		return "custom"
	default:
		return string(prompt.OperationDefault)
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	out := cfg.Output
	if out == "" {
		out = "console"
	}
	return fmt.Sprintf("%s@%s [%s] -> %s", cfg.Model, cfg.OllamaURL, cfg.OperationName(), out)
}
