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

package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textproc/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

func TestWorkspaceLifecycle(t *testing.T) {
	ws := workspace.NewIn(t.TempDir(), "ws-*")
	assert.False(t, ws.Created(), "nothing exists before first use")
	assert.Empty(t, ws.Location())

	root, err := ws.Dir()
	require.NoError(t, err)
	assert.DirExists(t, root)
	assert.True(t, ws.Created())

	again, err := ws.Dir()
	require.NoError(t, err)
	assert.Equal(t, root, again, "root is acquired once")

	sub, err := ws.Sub("zip/archive")
	require.NoError(t, err)
	assert.Equal(t, root, filepath.Dir(sub))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("x"), 0o644))

	require.NoError(t, ws.Close())
	assert.NoDirExists(t, root)
	assert.Equal(t, root, ws.Location())

	require.NoError(t, ws.Close(), "double release is a no-op")

	_, err = ws.Dir()
	require.Error(t, err, "released workspace cannot be reacquired")
}

func TestWorkspaceCloseWithoutUse(t *testing.T) {
	parent := t.TempDir()
	ws := workspace.NewIn(parent, "")
	require.NoError(t, ws.Close())

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries, "unused workspace never touches disk")
}

func TestWithin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		elem    []string
		wantErr bool
	}{
		{name: "simple", elem: []string{"a.txt"}},
		{name: "nested", elem: []string{"docs", "1.txt"}},
		{name: "parent_escape", elem: []string{"..", "x.txt"}, wantErr: true},
		{name: "nested_escape", elem: []string{"docs", "..", "..", "x.txt"}, wantErr: true},
		{name: "base_itself", elem: []string{"."}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workspace.Within(base, tt.elem...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, workspace.ErrEscape))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(append([]string{base}, tt.elem...)...), got)
		})
	}
}
