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

package status_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textproc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type recordingLines struct {
	events []status.ItemEvent
}

func (r *recordingLines) LogItem(ctx context.Context, ev status.ItemEvent) {
	r.events = append(r.events, ev)
}

func TestTracker(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	lines := &recordingLines{}
	tracker := status.New(lines)

	tracker.Start(ctx, 3)
	tracker.Track(ctx, status.ItemEvent{ID: "bad.txt", Status: status.StatusSkipped, Err: errors.New("not utf-8")})
	tracker.Track(ctx, status.ItemEvent{ID: "a.txt", Status: status.StatusProcessed, CharsIn: 5, CharsOut: 2, Duration: time.Second})
	tracker.Track(ctx, status.ItemEvent{ID: "b.md", Status: status.StatusFailed, Err: errors.New("model unavailable")})
	tracker.Track(ctx, status.ItemEvent{ID: "c.log", Status: status.StatusProcessed})

	assert.Equal(t, status.Counts{Total: 3, Processed: 2, Skipped: 1, Failed: 1}, tracker.Counts())
	require.Len(t, lines.events, 4)
	assert.Equal(t, "bad.txt", lines.events[0].ID)
	assert.Equal(t, "📊 2 processed, 1 skipped, 1 failed (3 collected)", tracker.Summary())
}

func TestTrackerWithoutLines(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	tracker := status.New(nil)
	tracker.Start(ctx, 1)
	tracker.Track(ctx, status.ItemEvent{ID: "a.txt", Status: status.StatusProcessed})
	assert.Equal(t, 1, tracker.Counts().Processed)
}

func TestItemStatusString(t *testing.T) {
	tests := []struct {
		status status.ItemStatus
		want   string
	}{
		{status.StatusProcessed, "processed"},
		{status.StatusSkipped, "skipped"},
		{status.StatusFailed, "failed"},
		{status.StatusUnknown, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}
