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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Expressions may reference env.NAME.
func (p *HCLParser) Parse(ctx context.Context, data []byte, cfg *Config) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Model      *string  `hcl:"model,optional"`
		OllamaURL  *string  `hcl:"ollama_url,optional"`
		Timeout    *string  `hcl:"timeout,optional"`
		Operation  *string  `hcl:"operation,optional"`
		Prompt     *string  `hcl:"prompt,optional"`
		Extensions []string `hcl:"extensions,optional"`
		Recursive  *bool    `hcl:"recursive,optional"`
		Output     *string  `hcl:"output,optional"`
		JSONL      *bool    `hcl:"jsonl,optional"`
		SkipCheck  *bool    `hcl:"skip_check,optional"`
		S3         *struct {
			Region    *string `hcl:"region,optional"`
			Endpoint  *string `hcl:"endpoint,optional"`
			PathStyle *bool   `hcl:"path_style,optional"`
		} `hcl:"s3,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return errors.Errorf("decoding HCL: %s", diags.Error())
	}

	setString(&cfg.Model, hclCfg.Model)
	setString(&cfg.OllamaURL, hclCfg.OllamaURL)
	setString(&cfg.Operation, hclCfg.Operation)
	setString(&cfg.Prompt, hclCfg.Prompt)
	setString(&cfg.Output, hclCfg.Output)
	setBool(&cfg.Recursive, hclCfg.Recursive)
	setBool(&cfg.JSONL, hclCfg.JSONL)
	setBool(&cfg.SkipCheck, hclCfg.SkipCheck)
	if hclCfg.Extensions != nil {
		cfg.Extensions = hclCfg.Extensions
	}
	if hclCfg.Timeout != nil {
		if err := cfg.Timeout.UnmarshalText([]byte(*hclCfg.Timeout)); err != nil {
			return errors.Errorf("decoding HCL timeout: %w", err)
		}
	}
	if hclCfg.S3 != nil {
		setString(&cfg.S3.Region, hclCfg.S3.Region)
		setString(&cfg.S3.Endpoint, hclCfg.S3.Endpoint)
		setBool(&cfg.S3.PathStyle, hclCfg.S3.PathStyle)
	}

	return nil
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vars)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
