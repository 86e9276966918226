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

package commands

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/textproc/cmd/textproc/opts"
	"github.com/walteh/textproc/pkg/config"
	"github.com/walteh/textproc/pkg/llm/ollama"
	"github.com/walteh/textproc/pkg/log"
	"github.com/walteh/textproc/pkg/operation"
	"github.com/walteh/textproc/pkg/output"
	"github.com/walteh/textproc/pkg/prompt"
	_ "github.com/walteh/textproc/pkg/remote/s3"
	"gitlab.com/tozd/go/errors"
)

type processFlags struct {
	model      string
	prompt     string
	summarize  bool
	analyze    bool
	extract    bool
	output     string
	jsonl      bool
	chain      bool
	extensions []string
	noRecurse  bool
	ollamaURL  string
	timeout    time.Duration
	skipCheck  bool
	s3Region   string
	s3Endpoint string
	s3Path     bool
}

// 🎯 NewProcessCmd creates the process command
func NewProcessCmd(root *opts.RootOpts) *cobra.Command {
	f := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process <source>",
		Short: "Run every document in a source through a local model",
		Long: `Process reads documents from a local file, a directory, a glob, an
s3://bucket/prefix, a zip archive, or the JSONL output of a previous run,
sends each one to an Ollama model with a prompt, and writes the responses.

Examples:
  textproc process notes.md --summarize
  textproc process ./docs -e txt,md -o results.json
  textproc process s3://bucket/reports/ --analyze --jsonl -o stage1.jsonl
  textproc process stage1.jsonl --chain -p "Combine these summaries: {text}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := root.LoadConfig(ctx)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("invalid configuration: %w", err)
			}
			zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration resolved")

			console := log.FromContext(ctx)
			console.Header(cfg.String())

			client := ollama.New(ollama.Options{Endpoint: cfg.OllamaURL, Timeout: time.Duration(cfg.Timeout)})

			job, err := operation.New(operation.Options{
				Config:  cfg,
				Source:  args[0],
				Chain:   f.chain,
				Client:  client,
				Writer:  output.New(output.Options{Path: cfg.Output, JSONL: cfg.JSONL, Console: root.Stdout}),
				Console: console,
			})
			if err != nil {
				return err
			}

			logger := zerolog.Ctx(ctx)
			if err := operation.NewRunner(logger).Run(ctx, job); err != nil {
				return err
			}
			root.UserLogger.LogSummary(job.Result().Counts, cfg.Output)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.model, "model", "m", config.DefaultModel, "ollama model to use")
	fl.StringVarP(&f.prompt, "prompt", "p", "", "custom prompt template, must contain "+prompt.Placeholder)
	fl.BoolVar(&f.summarize, "summarize", false, "summarize each document")
	fl.BoolVar(&f.analyze, "analyze", false, "analyze topics, tone and key points")
	fl.BoolVar(&f.extract, "extract", false, "extract key facts and details")
	fl.StringVarP(&f.output, "output", "o", "", "write results to this file instead of the console")
	fl.BoolVar(&f.jsonl, "jsonl", false, "write one JSON record per line")
	fl.BoolVar(&f.chain, "input-jsonl", false, "treat the source as JSONL output of a previous run")
	fl.BoolVar(&f.chain, "chain", false, "alias for --input-jsonl")
	fl.StringSliceVarP(&f.extensions, "extensions", "e", nil, "file extensions to include (repeatable or comma separated)")
	fl.BoolVar(&f.noRecurse, "no-recursive", false, "do not descend into sub-directories")
	fl.StringVar(&f.ollamaURL, "ollama-url", config.DefaultOllamaURL, "ollama base url")
	fl.DurationVar(&f.timeout, "timeout", config.DefaultTimeout, "timeout for each model call")
	fl.BoolVar(&f.skipCheck, "skip-check", false, "skip the ollama reachability check")
	fl.StringVar(&f.s3Region, "s3-region", "", "region for s3 sources")
	fl.StringVar(&f.s3Endpoint, "s3-endpoint", "", "endpoint for s3-compatible stores")
	fl.BoolVar(&f.s3Path, "s3-path-style", false, "use path-style s3 addressing")

	cmd.MarkFlagsMutuallyExclusive("summarize", "analyze", "extract", "prompt")

	return cmd
}

// apply overlays explicitly set flags on cfg, so file values survive
// unless the user overrides them.
func (f *processFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("model") {
		cfg.Model = f.model
	}
	switch {
	case f.summarize:
		cfg.Operation, cfg.Prompt = string(prompt.OperationSummarize), ""
	case f.analyze:
		cfg.Operation, cfg.Prompt = string(prompt.OperationAnalyze), ""
	case f.extract:
		cfg.Operation, cfg.Prompt = string(prompt.OperationExtract), ""
	case changed("prompt"):
		cfg.Operation, cfg.Prompt = "", f.prompt
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("jsonl") {
		cfg.JSONL = f.jsonl
	}
	if changed("extensions") {
		cfg.Extensions = f.extensions
	}
	if changed("no-recursive") {
		cfg.Recursive = !f.noRecurse
	}
	if changed("ollama-url") {
		cfg.OllamaURL = f.ollamaURL
	}
	if changed("timeout") {
		cfg.Timeout = config.Duration(f.timeout)
	}
	if changed("skip-check") {
		cfg.SkipCheck = f.skipCheck
	}
	if changed("s3-region") {
		cfg.S3.Region = f.s3Region
	}
	if changed("s3-endpoint") {
		cfg.S3.Endpoint = f.s3Endpoint
	}
	if changed("s3-path-style") {
		cfg.S3.PathStyle = f.s3Path
	}
}
