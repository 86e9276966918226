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

package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/walteh/textproc/pkg/record"
)

const ruleWidth = 50

// 🖥️ Console prints each record for a human reader.
type Console struct {
	w     io.Writer
	count int
}

var _ Writer = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

func (c *Console) Open(ctx context.Context) error {
	_, err := fmt.Fprintf(c.w, "\n%s\n", pterm.NewStyle(pterm.Bold, pterm.FgCyan).Sprint("--- Results ---"))
	if err != nil {
		return writeErr("printing header", err)
	}
	return nil
}

func (c *Console) Write(ctx context.Context, rec record.Record) error {
	c.count++
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s\n", pterm.FgGray.Sprint("Source:"), pterm.NewStyle(pterm.Bold).Sprint(rec.Source))
	fmt.Fprintf(&b, "%s %s %s\n", pterm.FgGray.Sprint("Model:"), rec.Model, pterm.FgGray.Sprintf("(%d → %d chars)", rec.CharCountIn, rec.CharCountOut))
	fmt.Fprintf(&b, "%s\n%s\n", pterm.FgGreen.Sprint("Result:"), rec.Response)
	b.WriteString(pterm.FgGray.Sprint(strings.Repeat("-", ruleWidth)))
	b.WriteString("\n")
	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return writeErr("printing record", err)
	}
	return nil
}

func (c *Console) Close(ctx context.Context, meta record.Meta) error {
	if c.count == 0 {
		if _, err := fmt.Fprintln(c.w, pterm.FgYellow.Sprint("no results")); err != nil {
			return writeErr("printing footer", err)
		}
	}
	return nil
}

func (c *Console) Abort() {}
