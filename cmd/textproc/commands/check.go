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
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/textproc/cmd/textproc/opts"
	"github.com/walteh/textproc/pkg/llm/ollama"
	"gitlab.com/tozd/go/errors"
)

// 🩺 NewCheckCmd creates the check command
func NewCheckCmd(root *opts.RootOpts) *cobra.Command {
	var (
		model     string
		ollamaURL string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that Ollama is reachable and list installed models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := root.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("model") {
				cfg.Model = model
			}
			if cmd.Flags().Changed("ollama-url") {
				cfg.OllamaURL = ollamaURL
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("invalid configuration: %w", err)
			}

			client := ollama.New(ollama.Options{Endpoint: cfg.OllamaURL, Timeout: time.Duration(cfg.Timeout)})

			models, err := client.Models(ctx)
			if err != nil {
				root.UserLogger.LogCheck(false, fmt.Sprintf("Ollama at %s", client.Endpoint()), err)
				return errors.Errorf("checking ollama: %w", err)
			}
			root.UserLogger.LogCheck(true, fmt.Sprintf("Ollama at %s", client.Endpoint()), nil)
			root.UserLogger.LogModels(models, cfg.Model)

			for _, m := range models {
				if m == cfg.Model || m == cfg.Model+":latest" {
					root.UserLogger.LogCheck(true, fmt.Sprintf("Model %s installed", cfg.Model), nil)
					return nil
				}
			}
			root.UserLogger.LogCheck(false, fmt.Sprintf("Model %s not installed, run: ollama pull %s", cfg.Model, cfg.Model), nil)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model to look for")
	cmd.Flags().StringVar(&ollamaURL, "ollama-url", "", "ollama base url")

	return cmd
}
