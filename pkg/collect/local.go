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

package collect

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// LocalFile collects a single file. Any read failure is fatal.
type LocalFile struct {
	spec source.LocalFile
}

func (c *LocalFile) Collect(ctx context.Context) (*Result, error) {
	text, size, err := readText(c.spec.Path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", c.spec.Path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", c.spec.Path).Int64("bytes", size).Msg("collected file")
	return &Result{Items: []Item{{ID: c.spec.Path, Text: text, ByteSize: size}}}, nil
}

// Directory collects every matching file under a directory, or the
// pre-expanded file list of a glob.
type Directory struct {
	spec source.Directory
}

func (c *Directory) Collect(ctx context.Context) (*Result, error) {
	files := c.spec.Files
	if files == nil {
		var err error
		files, err = c.walk(ctx)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("collecting %s: %w", c.spec.Path, err)
		}
		text, size, err := readText(path)
		if err != nil {
			res.skip(ctx, path, err)
			continue
		}
		res.Items = append(res.Items, Item{ID: path, Text: text, ByteSize: size})
	}
	zerolog.Ctx(ctx).Debug().Str("dir", c.spec.Path).Int("items", len(res.Items)).Int("skipped", len(res.Skipped)).Msg("collected directory")
	return res, nil
}

func (c *Directory) walk(ctx context.Context) ([]string, error) {
	pattern := "*"
	if c.spec.Recursive {
		pattern = "**/*"
	}

	var files []string
	err := doublestar.GlobWalk(os.DirFS(c.spec.Path), pattern, func(rel string, d fs.DirEntry) error {
		if !d.Type().IsRegular() {
			return nil
		}
		if !c.spec.Extensions.Match(rel) {
			zerolog.Ctx(ctx).Trace().Str("file", rel).Msg("extension not selected")
			return nil
		}
		files = append(files, filepath.Join(c.spec.Path, filepath.FromSlash(rel)))
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", c.spec.Path, err)
	}
	sort.Strings(files)
	return files, nil
}
