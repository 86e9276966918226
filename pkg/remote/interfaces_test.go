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

package remote_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textproc/pkg/remote"
)

type memStore struct {
	opts remote.Options
}

func (m *memStore) Name() string { return "mem" }

func (m *memStore) List(ctx context.Context, bucket, prefix string) ([]remote.Object, error) {
	return []remote.Object{{Key: prefix + "a.txt", Size: 1}}, nil
}

func (m *memStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("a")), nil
}

func TestRegistry(t *testing.T) {
	remote.RegisterStore("mem", func(ctx context.Context, opts remote.Options) (remote.ObjectStore, error) {
		return &memStore{opts: opts}, nil
	})

	store, err := remote.NewStore(context.Background(), "mem", remote.Options{Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "mem", store.Name())
	assert.Equal(t, "eu-west-1", store.(*memStore).opts.Region)
	assert.Contains(t, remote.Schemes(), "mem")

	_, err = remote.NewStore(context.Background(), "nope", remote.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object store nope not found")
}
