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

package status

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// 📊 ItemStatus is the outcome of one item
type ItemStatus int

const (
	StatusUnknown   ItemStatus = iota
	StatusProcessed            // model call succeeded and the record was written
	StatusSkipped              // dropped during collection
	StatusFailed               // model call failed
)

// String returns a string representation of ItemStatus
func (s ItemStatus) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 ItemEvent describes what happened to one item
type ItemEvent struct {
	ID       string
	Status   ItemStatus
	CharsIn  int
	CharsOut int
	Duration time.Duration
	Err      error
}

// 📈 Reporter receives run progress
type Reporter interface {
	Start(ctx context.Context, total int)
	Track(ctx context.Context, ev ItemEvent)
}

// ItemLogger renders item events for a human.
type ItemLogger interface {
	LogItem(ctx context.Context, ev ItemEvent)
}

// 🔢 Counts are the totals of a run
type Counts struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
}

// 🔧 Tracker implements Reporter
type Tracker struct {
	formatter Formatter
	lines     ItemLogger

	mu     sync.Mutex
	counts Counts
	done   int
}

var _ Reporter = (*Tracker)(nil)

// 🏭 New creates a tracker. lines may be nil.
func New(lines ItemLogger) *Tracker {
	return &Tracker{
		formatter: NewDefaultFormatter(),
		lines:     lines,
	}
}

func (t *Tracker) Start(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts.Total = total
	t.done = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) Track(ctx context.Context, ev ItemEvent) {
	t.mu.Lock()
	switch ev.Status {
	case StatusProcessed:
		t.counts.Processed++
		t.done++
	case StatusFailed:
		t.counts.Failed++
		t.done++
	case StatusSkipped:
		t.counts.Skipped++
	}
	done, total := t.done, t.counts.Total
	t.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	event := logger.Info()
	if ev.Err != nil {
		event = logger.Warn().Err(ev.Err)
	}
	event.
		Str("item", ev.ID).
		Str("status", ev.Status.String()).
		Int("chars_in", ev.CharsIn).
		Int("chars_out", ev.CharsOut).
		Dur("duration", ev.Duration).
		Msg(t.formatter.FormatItem(ev))

	if ev.Status != StatusSkipped {
		logger.Debug().Int("processed", done).Int("total", total).Msg(t.formatter.FormatProgress(done, total))
	}

	if t.lines != nil {
		t.lines.LogItem(ctx, ev)
	}
}

// Counts returns a snapshot of the totals.
func (t *Tracker) Counts() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts
}

// Summary formats the totals for display.
func (t *Tracker) Summary() string {
	return t.formatter.FormatSummary(t.Counts())
}
