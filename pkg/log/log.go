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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/status"
)

// 🎨 Display configuration
const (
	itemIndent  = 4  // spaces to indent item entries
	nameWidth   = 35 // Base width for item id
	statusWidth = 12 // Width for status text
)

// 📦 RunHeader describes the run being started
type RunHeader struct {
	Source string // Raw source string
	Kind   string // Resolved source kind
	Model  string // Model name
	Output string // Destination, empty for console
}

// 🎯 Logger pairs structured logs with a colored per-item console listing
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	run     *RunHeader
	items   int
}

var _ status.ItemLogger = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatItem formats an item event for display
func (l *Logger) formatItem(ev status.ItemEvent) string {
	var symbol rune
	var symbolColor color.Attribute
	switch ev.Status {
	case status.StatusProcessed:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case status.StatusSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	detail := ""
	switch {
	case ev.Status == status.StatusProcessed:
		detail = color.New(color.Faint).Sprintf("%d→%d chars %s", ev.CharsIn, ev.CharsOut, ev.Duration.Round(time.Millisecond))
	case ev.Err != nil:
		detail = color.New(color.Faint).Sprint(ev.Err.Error())
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", itemIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, ev.ID),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, ev.Status.String())),
		detail)
}

// 📝 LogItem prints one line per item
func (l *Logger) LogItem(ctx context.Context, ev status.ItemEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items++
	fmt.Fprintln(l.console, l.formatItem(ev))

	l.zlog.Debug().
		Str("item", ev.ID).
		Str("status", ev.Status.String()).
		Int("chars_in", ev.CharsIn).
		Int("chars_out", ev.CharsOut).
		Msg("item")
}

// 📝 StartRun prints the run banner
func (l *Logger) StartRun(ctx context.Context, run RunHeader) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run = &run
	l.items = 0

	fmt.Fprintf(l.console, "[processing %s]\n",
		color.New(color.FgCyan).Sprint(run.Source))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(run.Kind),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(run.Model))

	l.zlog.Info().
		Str("source", run.Source).
		Str("kind", run.Kind).
		Str("model", run.Model).
		Str("output", run.Output).
		Msg("starting run")
}

// 📝 EndRun closes the current run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.run == nil {
		return
	}

	l.zlog.Info().
		Str("source", l.run.Source).
		Int("items", l.items).
		Msg("run complete")

	l.run = nil
	l.items = 0
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("textproc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
