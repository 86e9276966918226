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

// Package remote defines the object-storage collaborator used by remote
// source collectors.
package remote

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// Options configures an object store client. Zero values mean "use the
// ambient configuration".
type Options struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// Factory builds a store for one scheme.
type Factory func(ctx context.Context, opts Options) (ObjectStore, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// RegisterStore makes a store factory available for scheme (e.g. "s3").
func RegisterStore(scheme string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[scheme] = factory
}

// NewStore builds the store registered for scheme.
func NewStore(ctx context.Context, scheme string, opts Options) (ObjectStore, error) {
	registryMu.RLock()
	factory, ok := registry[scheme]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("object store %s not found, options: %s", scheme, strings.Join(Schemes(), ", "))
	}
	return factory(ctx, opts)
}

// Schemes lists registered schemes in sorted order.
func Schemes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ObjectStore is the minimal remote storage surface the collectors need.
type ObjectStore interface {
	// Name returns the store name (e.g. "s3")
	Name() string
	// List returns every object under bucket/prefix. Pagination is handled
	// by the implementation; the caller sees one flat slice.
	List(ctx context.Context, bucket, prefix string) ([]Object, error)
	// Get opens the object body; the caller closes it.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Object describes one listed object.
type Object struct {
	Key  string
	Size int64
}
