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
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/record"
)

// 📜 JSONL appends one tagged record per line as soon as it is written.
type JSONL struct {
	path string
	out  io.Writer

	mu     sync.Mutex
	file   *os.File
	w      io.Writer
	count  int
	opened bool
}

var _ Writer = (*JSONL)(nil)

// NewJSONL writes to path, truncating any previous content on Open.
func NewJSONL(path string) *JSONL {
	return &JSONL{path: path}
}

// NewJSONLTo writes lines to w, e.g. stdout.
func NewJSONLTo(w io.Writer) *JSONL {
	if w == nil {
		w = os.Stdout
	}
	return &JSONL{out: w}
}

func (w *JSONL) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path == "" {
		w.w = w.out
		w.opened = true
		return nil
	}
	f, err := os.Create(w.path)
	if err != nil {
		return writeErr("creating "+w.path, err)
	}
	w.file = f
	w.w = f
	w.opened = true
	return nil
}

func (w *JSONL) Write(ctx context.Context, rec record.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.opened {
		return writeErr("writing record", os.ErrClosed)
	}
	line, err := json.Marshal(rec.Tagged())
	if err != nil {
		return writeErr("encoding record", err)
	}
	// a single write per line keeps completed lines intact on interruption
	if _, err := w.w.Write(append(line, '\n')); err != nil {
		return writeErr("appending record", err)
	}
	w.count++
	return nil
}

func (w *JSONL) Close(ctx context.Context, meta record.Meta) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.opened {
		return writeErr("closing", os.ErrClosed)
	}
	w.opened = false
	zerolog.Ctx(ctx).Debug().Str("path", w.path).Str("run_id", meta.RunID).Int("records", w.count).Msg("closed jsonl stream")
	if w.file == nil {
		return nil
	}
	f := w.file
	w.file = nil
	if err := f.Close(); err != nil {
		return writeErr("closing "+w.path, err)
	}
	return nil
}

// Abort closes the file and keeps every line written so far.
func (w *JSONL) Abort() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.opened = false
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
}
