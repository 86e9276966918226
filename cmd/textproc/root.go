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
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/textproc/cmd/textproc/commands"
	"github.com/walteh/textproc/cmd/textproc/opts"
	"github.com/walteh/textproc/pkg/log"
)

// newRootCmd builds the command tree. stdout receives results; stderr
// receives logs, progress and summaries.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	root := &opts.RootOpts{Stdout: stdout, Stderr: stderr}

	cmd := &cobra.Command{
		Use:   "textproc",
		Short: "Batch-process documents through a local language model",
		Long: `textproc gathers text documents from local paths, S3 prefixes, zip
archives or previous JSONL runs, sends each through an Ollama model with a
configurable prompt, and writes structured results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := setupLogging(root, cmd).WithContext(cmd.Context())
			ctx = log.NewContext(ctx, root.Console)
			root.UserLogger = log.NewUserLogger(ctx, stderr)
			cmd.SetContext(ctx)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, root)

	cmd.AddCommand(
		commands.NewProcessCmd(root),
		commands.NewCheckCmd(root),
		commands.NewVersionCmd(root),
	)
	return cmd, root
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, root *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&root.ConfigFile, "config", "c", "", "config file path (default: .textproc.{yaml,yml,json,hcl} if present)")
	cmd.PersistentFlags().BoolVarP(&root.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(root *opts.RootOpts, cmd *cobra.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	if root.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: root.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Str("cmd", cmd.Name()).
		Logger()
	root.Console = log.New(root.Stderr, logger)
	return logger
}
