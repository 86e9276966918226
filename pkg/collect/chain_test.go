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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textproc/pkg/collect"
	"github.com/walteh/textproc/pkg/record"
	"github.com/walteh/textproc/pkg/source"
	"gitlab.com/tozd/go/errors"
)

func TestJSONLChain(t *testing.T) {
	ctx := testContext(t)

	tests := []struct {
		name    string
		lines   []string
		want    string
		wantErr error
	}{
		{
			name: "records_joined_in_order",
			lines: []string{
				`{"type":"record","source":"a.txt","response":"first"}`,
				`{"type":"record","source":"b.md","response":"second"}`,
				`{"type":"record","source":"c.log","response":"third"}`,
			},
			want: "first" + record.ChainSeparator + "second" + record.ChainSeparator + "third",
		},
		{
			name: "blank_invalid_and_foreign_lines_ignored",
			lines: []string{
				``,
				`{"type":"record","response":"one"}`,
				`not json at all`,
				`{"type":"meta","model":"m"}`,
				`   `,
				`{"file":"x.txt","result":"two"}`,
			},
			want: "one" + record.ChainSeparator + "two",
		},
		{
			name:  "single_record",
			lines: []string{`{"response":"only"}`},
			want:  "only",
		},
		{
			name:    "empty_file",
			lines:   nil,
			wantErr: collect.ErrEmptyChain,
		},
		{
			name:    "nothing_usable",
			lines:   []string{`garbage`, `{"type":"meta"}`},
			wantErr: collect.ErrEmptyChain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prior.jsonl")
			require.NoError(t, os.WriteFile(path, []byte(strings.Join(tt.lines, "\n")), 0o644))

			res, err := collectSpec(t, ctx, source.JSONLChain{Path: path}, collect.Deps{})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Len(t, res.Items, 1)
			assert.Equal(t, record.ChainID, res.Items[0].ID)
			assert.Equal(t, tt.want, res.Items[0].Text)
			assert.Equal(t, int64(len(tt.want)), res.Items[0].ByteSize)
		})
	}
}

func TestJSONLChainLongLine(t *testing.T) {
	ctx := testContext(t)
	long := strings.Repeat("x", 2<<20)
	path := filepath.Join(t.TempDir(), "prior.jsonl")
	content := `{"response":"` + long + `"}` + "\n" + `{"response":"tail"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := collectSpec(t, ctx, source.JSONLChain{Path: path}, collect.Deps{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, long+record.ChainSeparator+"tail", res.Items[0].Text)
}
