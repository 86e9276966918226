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
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/source"
	"github.com/walteh/textproc/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// ZipArchive verifies an archive, extracts matching entries into the
// workspace and reads them.
type ZipArchive struct {
	spec source.ZipArchive
	ws   *workspace.Workspace
}

func (c *ZipArchive) Collect(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	r, err := zip.OpenReader(c.spec.Path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, errors.Errorf("%w: %s: %s", ErrCorruptArchive, c.spec.Path, err.Error())
	}
	defer r.Close()

	// nothing is written until every entry checks out
	for _, f := range r.File {
		if err := verifyEntry(f); err != nil {
			return nil, errors.Errorf("%w: %s: entry %s: %s", ErrCorruptArchive, c.spec.Path, f.Name, err.Error())
		}
	}

	entries := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !c.spec.Extensions.Match(f.Name) {
			continue
		}
		entries = append(entries, f)
	}
	// stable so the first of two same-named entries wins
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	res := &Result{}
	if len(entries) == 0 {
		return res, nil
	}

	dir, err := c.ws.Sub("zip-" + strings.TrimSuffix(filepath.Base(c.spec.Path), filepath.Ext(c.spec.Path)))
	if err != nil {
		return nil, err
	}

	type extracted struct {
		name string
		path string
	}
	var done []extracted
	used := make(map[string]string, len(entries))
	for _, f := range entries {
		dest, err := workspace.Within(dir, filepath.FromSlash(f.Name))
		if err != nil {
			logger.Warn().Str("entry", f.Name).Msg("skipping archive entry outside extraction directory")
			continue
		}
		if first, ok := used[dest]; ok {
			res.skip(ctx, f.Name, errors.Errorf("%w: %s collides with %s", ErrDuplicateEntry, f.Name, first))
			continue
		}
		used[dest] = f.Name
		if err := extractEntry(f, dest); err != nil {
			os.RemoveAll(dir)
			return nil, errors.Errorf("%w: extracting %s: %s", ErrCorruptArchive, f.Name, err.Error())
		}
		done = append(done, extracted{name: f.Name, path: dest})
	}

	for _, e := range done {
		text, size, err := readText(e.path)
		if err != nil {
			res.skip(ctx, e.name, err)
			continue
		}
		res.Items = append(res.Items, Item{ID: e.name, Text: text, ByteSize: size})
	}
	logger.Debug().Str("archive", c.spec.Path).Int("items", len(res.Items)).Msg("collected archive")
	return res, nil
}

// verifyEntry reads the entry to the end, which checks its CRC.
func verifyEntry(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(io.Discard, rc)
	return err
}

func extractEntry(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
