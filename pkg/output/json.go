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
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/record"
)

// 📦 JSON buffers records and writes one envelope atomically on Close.
type JSON struct {
	path string

	mu      sync.Mutex
	tmp     *os.File
	records []record.Record
}

var _ Writer = (*JSON)(nil)

func NewJSON(path string) *JSON {
	return &JSON{path: path}
}

// Open creates the temporary file next to the destination so an unwritable
// directory fails the run before any model call.
func (w *JSON) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return writeErr("creating temp file", err)
	}
	w.tmp = tmp
	w.records = make([]record.Record, 0)
	return nil
}

func (w *JSON) Write(ctx context.Context, rec record.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tmp == nil {
		return writeErr("writing record", os.ErrClosed)
	}
	rec.Type = ""
	w.records = append(w.records, rec)
	return nil
}

// Close writes the envelope to the temp file, then renames it over the
// destination.
func (w *JSON) Close(ctx context.Context, meta record.Meta) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tmp == nil {
		return writeErr("closing", os.ErrClosed)
	}
	tmp := w.tmp
	w.tmp = nil

	meta.Count = len(w.records)
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record.Envelope{Meta: meta, Records: w.records}); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return writeErr("encoding envelope", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return writeErr("closing temp file", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		os.Remove(tmp.Name())
		return writeErr("renaming temp file", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", w.path).Int("records", meta.Count).Msg("wrote json envelope")
	return nil
}

// Abort discards the buffered records; the destination is left untouched.
func (w *JSON) Abort() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tmp == nil {
		return
	}
	w.tmp.Close()
	os.Remove(w.tmp.Name())
	w.tmp = nil
	w.records = nil
}
