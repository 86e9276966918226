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

// Package output writes processing records as a JSON envelope, a JSONL
// stream, or a human-readable console listing.
package output

import (
	"context"
	"io"

	"github.com/walteh/textproc/pkg/record"
	"gitlab.com/tozd/go/errors"
)

// ErrOutputWrite means the destination could not be created or written.
var ErrOutputWrite = errors.Base("output write failed")

// ✍️ Writer receives records in processing order.
//
// Open is called once before the first record. Close finalizes the output
// with the run metadata. Abort releases resources after a fatal error and
// never fails; records already made durable stay on disk.
type Writer interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, rec record.Record) error
	Close(ctx context.Context, meta record.Meta) error
	Abort()
}

// 🔧 Options selects and configures a Writer
type Options struct {
	// Path is the destination file. Empty means the console.
	Path string
	// JSONL selects one record per line instead of a single envelope.
	JSONL bool
	// Console receives output when Path is empty.
	Console io.Writer
}

// 🏭 New returns the writer described by opts.
func New(opts Options) Writer {
	switch {
	case opts.Path != "" && opts.JSONL:
		return NewJSONL(opts.Path)
	case opts.Path != "":
		return NewJSON(opts.Path)
	case opts.JSONL:
		return NewJSONLTo(opts.Console)
	default:
		return NewConsole(opts.Console)
	}
}

func writeErr(op string, err error) error {
	return errors.Errorf("%w: %s: %s", ErrOutputWrite, op, err.Error())
}
