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

// Package processor runs every collected item through the model, one at a time.
package processor

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/collect"
	"github.com/walteh/textproc/pkg/llm"
	"github.com/walteh/textproc/pkg/prompt"
	"github.com/walteh/textproc/pkg/record"
	"github.com/walteh/textproc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// EmitFunc receives each record as soon as it exists. An error aborts the run.
type EmitFunc func(ctx context.Context, rec record.Record) error

// 🔧 Options configures a Processor
type Options struct {
	Client   llm.Client
	Model    string
	Template prompt.Template
	// Now defaults to time.Now.
	Now func() time.Time
	// Reporter is optional.
	Reporter status.Reporter
}

// 📊 Summary is the outcome of Process
type Summary struct {
	Processed int
	Failed    []collect.Skip
}

// ⚙️ Processor calls the model for each item in order
type Processor struct {
	opts Options
}

// 🏭 New validates opts and returns a Processor.
func New(opts Options) (*Processor, error) {
	if opts.Client == nil {
		return nil, errors.New("processor requires a model client")
	}
	if opts.Model == "" {
		return nil, errors.New("processor requires a model name")
	}
	if opts.Template == "" {
		return nil, errors.New("processor requires a prompt template")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{opts: opts}, nil
}

// 🚀 Process handles items strictly in order. Model failures are logged and
// skipped; a cancelled context or an emit failure stops the run.
func (p *Processor) Process(ctx context.Context, items []collect.Item, emit EmitFunc) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	sum := &Summary{}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return sum, errors.Errorf("processing interrupted before %s: %w", item.ID, err)
		}

		logger.Debug().Str("item", item.ID).Int("index", i+1).Int("total", len(items)).Msg("calling model")

		start := time.Now()
		response, err := p.opts.Client.Generate(ctx, p.opts.Model, p.opts.Template.Build(item.Text))
		took := time.Since(start)
		charsIn := utf8.RuneCountInString(item.Text)

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return sum, errors.Errorf("processing interrupted at %s: %w", item.ID, ctxErr)
			}
			logger.Error().Err(err).Str("item", item.ID).
				Bool("unavailable", errors.Is(err, llm.ErrModelUnavailable)).
				Bool("timeout", errors.Is(err, llm.ErrModelTimeout)).
				Msg("model call failed, skipping item")
			sum.Failed = append(sum.Failed, collect.Skip{ID: item.ID, Err: err})
			p.report(ctx, status.ItemEvent{ID: item.ID, Status: status.StatusFailed, CharsIn: charsIn, Duration: took, Err: err})
			continue
		}

		rec := record.Record{
			Source:       item.ID,
			Prompt:       p.opts.Template.String(),
			Model:        p.opts.Model,
			Response:     response,
			Timestamp:    p.opts.Now().UTC().Format(record.TimestampFormat),
			CharCountIn:  charsIn,
			CharCountOut: utf8.RuneCountInString(response),
		}
		if err := emit(ctx, rec); err != nil {
			return sum, errors.Errorf("emitting record for %s: %w", item.ID, err)
		}
		sum.Processed++
		p.report(ctx, status.ItemEvent{ID: item.ID, Status: status.StatusProcessed, CharsIn: rec.CharCountIn, CharsOut: rec.CharCountOut, Duration: took})
	}
	return sum, nil
}

func (p *Processor) report(ctx context.Context, ev status.ItemEvent) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Track(ctx, ev)
	}
}
