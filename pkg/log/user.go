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
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/status"
)

// 📢 UserLogger prints pterm-styled feedback for commands
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger writing to out (stdout when nil)
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	if out == nil {
		out = os.Stdout
	}
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) println(base pterm.PrefixPrinter, prefix, msg string) {
	p := base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style})
	fmt.Fprint(u.out, p.Sprintln(msg))
}

// 🔍 LogCheck logs the result of a pre-flight check
func (u *UserLogger) LogCheck(ok bool, description string, err error) {
	switch {
	case ok:
		u.println(pterm.Success, "✅", description)
		u.log.Info().Msg(description)
	case err != nil:
		u.println(pterm.Error, "❌", description)
		u.println(pterm.Error, "ERROR", err.Error())
		u.log.Error().Err(err).Msg(description)
	default:
		u.println(pterm.Warning, "⚠️", description)
		u.log.Warn().Msg(description)
	}
}

// 📋 LogModels lists installed models
func (u *UserLogger) LogModels(models []string, want string) {
	items := make([]pterm.BulletListItem, 0, len(models))
	for _, m := range models {
		item := pterm.BulletListItem{Level: 0, Text: m}
		if m == want {
			item.TextStyle = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
		}
		items = append(items, item)
	}
	rendered, err := pterm.DefaultBulletList.WithItems(items).Srender()
	if err != nil {
		u.log.Debug().Err(err).Msg("rendering model list")
		return
	}
	fmt.Fprint(u.out, rendered)
}

// 📊 LogSummary prints the end-of-run totals
func (u *UserLogger) LogSummary(c status.Counts, output string) {
	msg := status.NewDefaultFormatter().FormatSummary(c)
	if c.Failed > 0 || c.Skipped > 0 {
		u.println(pterm.Warning, "📊", msg)
	} else {
		u.println(pterm.Success, "📊", msg)
	}
	if output != "" {
		u.println(pterm.Info, "💾", "Results saved to: "+output)
	}
	u.log.Info().Int("processed", c.Processed).Int("skipped", c.Skipped).Int("failed", c.Failed).Msg("summary")
}

// ❌ LogFatal prints a run-ending error
func (u *UserLogger) LogFatal(err error) {
	u.println(pterm.Error, "FATAL", status.NewDefaultFormatter().FormatError(err))
	u.log.Error().Err(err).Msg("run failed")
}
