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

// Package collect turns a resolved source into an ordered list of text items.
package collect

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/remote"
	"github.com/walteh/textproc/pkg/source"
	"github.com/walteh/textproc/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrRead means a file could not be read or is not UTF-8 text.
	ErrRead = errors.Base("read failed")
	// ErrDownload means a remote object could not be fetched.
	ErrDownload = errors.Base("download failed")
	// ErrCorruptArchive means the archive failed integrity validation.
	ErrCorruptArchive = errors.Base("corrupt archive")
	// ErrDuplicateEntry means an archive entry lands on a path an earlier entry already used.
	ErrDuplicateEntry = errors.Base("duplicate archive entry")
	// ErrEmptyChain means chained input held no usable text.
	ErrEmptyChain = errors.Base("empty chained input")
)

// 📄 Item is one document ready for processing.
type Item struct {
	ID       string
	Text     string
	ByteSize int64
}

// ⏭️ Skip records an item that was dropped with a recoverable error.
type Skip struct {
	ID  string
	Err error
}

// Result is the ordered output of a collector.
type Result struct {
	Items   []Item
	Skipped []Skip
}

func (r *Result) skip(ctx context.Context, id string, err error) {
	zerolog.Ctx(ctx).Warn().Err(err).Str("item", id).Msg("skipping item")
	r.Skipped = append(r.Skipped, Skip{ID: id, Err: err})
}

// 🧲 Collector yields the items of one source. Calling Collect twice on
// unchanged input yields the same items in the same order.
type Collector interface {
	Collect(ctx context.Context) (*Result, error)
}

// Deps are the collaborators a collector may need.
type Deps struct {
	Workspace *workspace.Workspace
	Store     remote.ObjectStore
}

// 🎯 ForSpec returns the collector for spec.
func ForSpec(spec source.Spec, deps Deps) (Collector, error) {
	switch s := spec.(type) {
	case source.LocalFile:
		return &LocalFile{spec: s}, nil
	case source.Directory:
		return &Directory{spec: s}, nil
	case source.S3Prefix:
		if deps.Store == nil {
			return nil, errors.Errorf("%w: no object store configured for %s", source.ErrSourceResolution, s)
		}
		if deps.Workspace == nil {
			return nil, errors.New("s3 collector requires a workspace")
		}
		return &S3Prefix{spec: s, store: deps.Store, ws: deps.Workspace}, nil
	case source.ZipArchive:
		if deps.Workspace == nil {
			return nil, errors.New("zip collector requires a workspace")
		}
		return &ZipArchive{spec: s, ws: deps.Workspace}, nil
	case source.JSONLChain:
		return &JSONLChain{spec: s}, nil
	default:
		return nil, errors.Errorf("%w: no collector for %T", source.ErrUnsupportedSource, spec)
	}
}

// readText reads path and requires valid UTF-8.
func readText(path string) (string, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, errors.Errorf("%w: %s", ErrRead, err.Error())
	}
	if !utf8.Valid(data) {
		return "", 0, errors.Errorf("%w: %s is not valid utf-8", ErrRead, path)
	}
	return string(data), int64(len(data)), nil
}
