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

package collect_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textproc/pkg/collect"
	"github.com/walteh/textproc/pkg/source"
	"github.com/walteh/textproc/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func ids(items []collect.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func collectSpec(t *testing.T, ctx context.Context, spec source.Spec, deps collect.Deps) (*collect.Result, error) {
	t.Helper()
	c, err := collect.ForSpec(spec, deps)
	require.NoError(t, err)
	return c.Collect(ctx)
}

func TestLocalFile(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "héllo"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.txt"), []byte{0xff, 0xfe, 0x00}, 0o644))

	res, err := collectSpec(t, ctx, source.LocalFile{Path: filepath.Join(root, "a.txt")}, collect.Deps{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "héllo", res.Items[0].Text)
	assert.Equal(t, int64(len("héllo")), res.Items[0].ByteSize)

	_, err = collectSpec(t, ctx, source.LocalFile{Path: filepath.Join(root, "bad.txt")}, collect.Deps{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, collect.ErrRead))

	_, err = collectSpec(t, ctx, source.LocalFile{Path: filepath.Join(root, "missing.txt")}, collect.Deps{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, collect.ErrRead))
}

func TestDirectory(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt":        "hello",
		"b.md":         "world",
		"c.png":        "not text",
		"nested/d.log": "deep",
		"nested/e.CSV": "x,y",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "z.txt"), []byte{0xff, 0xfe}, 0o644))

	tests := []struct {
		name        string
		spec        source.Directory
		wantIDs     []string
		wantSkipped []string
	}{
		{
			name: "flat_scenario",
			spec: source.Directory{Path: root, Extensions: source.DefaultExtensions},
			wantIDs: []string{
				filepath.Join(root, "a.txt"),
				filepath.Join(root, "b.md"),
			},
			wantSkipped: []string{filepath.Join(root, "z.txt")},
		},
		{
			name: "recursive",
			spec: source.Directory{Path: root, Recursive: true, Extensions: source.DefaultExtensions},
			wantIDs: []string{
				filepath.Join(root, "a.txt"),
				filepath.Join(root, "b.md"),
				filepath.Join(root, "nested", "d.log"),
				filepath.Join(root, "nested", "e.CSV"),
			},
			wantSkipped: []string{filepath.Join(root, "z.txt")},
		},
		{
			name:    "custom_extensions",
			spec:    source.Directory{Path: root, Recursive: true, Extensions: source.Extensions{".md"}},
			wantIDs: []string{filepath.Join(root, "b.md")},
		},
		{
			name: "expanded_file_list",
			spec: source.Directory{
				Path:       filepath.Join(root, "*"),
				Extensions: source.DefaultExtensions,
				Files:      []string{filepath.Join(root, "a.txt"), filepath.Join(root, "nested", "d.log")},
			},
			wantIDs: []string{filepath.Join(root, "a.txt"), filepath.Join(root, "nested", "d.log")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := collectSpec(t, ctx, tt.spec, collect.Deps{})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantIDs, ids(res.Items)); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			var skipped []string
			for _, s := range res.Skipped {
				assert.True(t, errors.Is(s.Err, collect.ErrRead))
				skipped = append(skipped, s.ID)
			}
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func TestDirectoryDeterministic(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"m.txt": "m", "a/b.md": "b", "k.log": "k", "a/a.txt": "a"})

	spec := source.Directory{Path: root, Recursive: true, Extensions: source.DefaultExtensions}
	first, err := collectSpec(t, ctx, spec, collect.Deps{})
	require.NoError(t, err)
	second, err := collectSpec(t, ctx, spec, collect.Deps{})
	require.NoError(t, err)

	if diff := cmp.Diff(first.Items, second.Items); diff != "" {
		t.Errorf("repeated collection differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, []string{
		filepath.Join(root, "a", "a.txt"),
		filepath.Join(root, "a", "b.md"),
		filepath.Join(root, "k.log"),
		filepath.Join(root, "m.txt"),
	}, ids(first.Items))
}

func TestForSpecMissingDeps(t *testing.T) {
	_, err := collect.ForSpec(source.S3Prefix{Bucket: "b"}, collect.Deps{Workspace: workspace.New("")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrSourceResolution))

	_, err = collect.ForSpec(source.ZipArchive{Path: "x.zip"}, collect.Deps{})
	require.Error(t, err)
}
