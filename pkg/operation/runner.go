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

package operation

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrInterrupted means a signal stopped the run.
var ErrInterrupted = errors.Base("interrupted")

// 🏃 Runner executes operations and turns SIGINT/SIGTERM into context
// cancellation, so deferred cleanup inside the operation always runs.
type Runner struct {
	logger  *zerolog.Logger
	signals []os.Signal
}

// 🏗️ NewRunner creates a new runner. With no signals, SIGINT and SIGTERM
// are used.
func NewRunner(logger *zerolog.Logger, signals ...os.Signal) *Runner {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return &Runner{
		logger:  logger,
		signals: signals,
	}
}

// 🏃 Run executes an operation
func (r *Runner) Run(ctx context.Context, op Operation) error {
	sigCtx, stop := signal.NotifyContext(ctx, r.signals...)
	defer stop()

	err := op.Execute(sigCtx)
	if err == nil {
		return nil
	}
	if sigCtx.Err() != nil && ctx.Err() == nil {
		r.logger.Warn().Err(err).Msg("operation interrupted by signal")
		return errors.Errorf("%w: %s", ErrInterrupted, err.Error())
	}
	return err
}
