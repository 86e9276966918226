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
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/remote"
	"github.com/walteh/textproc/pkg/source"
	"github.com/walteh/textproc/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// S3Prefix downloads matching objects into the workspace and reads them.
type S3Prefix struct {
	spec  source.S3Prefix
	store remote.ObjectStore
	ws    *workspace.Workspace
}

func (c *S3Prefix) Collect(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	objects, err := c.store.List(ctx, c.spec.Bucket, c.spec.Prefix)
	if err != nil {
		return nil, errors.Errorf("%w: %s", source.ErrSourceResolution, err.Error())
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == "" || obj.Key[len(obj.Key)-1] == '/' {
			continue
		}
		if c.spec.Extensions.Match(obj.Key) {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	logger.Debug().Str("source", c.spec.String()).Int("listed", len(objects)).Int("selected", len(keys)).Msg("listed objects")

	res := &Result{}
	if len(keys) == 0 {
		return res, nil
	}

	dir, err := c.ws.Sub(c.store.Name())
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("collecting %s: %w", c.spec, err)
		}
		dest, err := c.download(ctx, dir, key)
		if err != nil {
			res.skip(ctx, key, err)
			continue
		}
		text, size, err := readText(dest)
		if err != nil {
			res.skip(ctx, key, err)
			continue
		}
		res.Items = append(res.Items, Item{ID: key, Text: text, ByteSize: size})
	}
	return res, nil
}

func (c *S3Prefix) download(ctx context.Context, dir, key string) (string, error) {
	dest, err := workspace.Within(dir, filepath.FromSlash(key))
	if err != nil {
		return "", errors.Errorf("%w: %s", ErrDownload, err.Error())
	}

	body, err := c.store.Get(ctx, c.spec.Bucket, key)
	if err != nil {
		return "", errors.Errorf("%w: %s", ErrDownload, err.Error())
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.Errorf("%w: %s", ErrDownload, err.Error())
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", errors.Errorf("%w: %s", ErrDownload, err.Error())
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", errors.Errorf("%w: copying %s: %s", ErrDownload, key, err.Error())
	}
	if err := f.Close(); err != nil {
		return "", errors.Errorf("%w: %s", ErrDownload, err.Error())
	}
	return dest, nil
}
