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
	"fmt"
)

// 🎨 Formatter formats status messages
type Formatter interface {
	// FormatItem formats one item outcome
	FormatItem(ev ItemEvent) string
	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
	// FormatSummary formats the end-of-run totals
	FormatSummary(c Counts) string
	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatItem formats an item outcome with emojis
func (f *DefaultFormatter) FormatItem(ev ItemEvent) string {
	switch ev.Status {
	case StatusProcessed:
		return fmt.Sprintf("✨ Processed %s", ev.ID)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", ev.ID)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", ev.ID)
	default:
		return fmt.Sprintf("❔ %s", ev.ID)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatSummary formats the run totals
func (f *DefaultFormatter) FormatSummary(c Counts) string {
	return fmt.Sprintf("📊 %d processed, %d skipped, %d failed (%d collected)", c.Processed, c.Skipped, c.Failed, c.Total)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
