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

// Package workspace owns the ephemeral directory a run uses to materialize
// remote objects and archive entries on local disk.
package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// ErrEscape is returned when a requested path would land outside the workspace.
var ErrEscape = errors.Base("path escapes workspace")

// 📦 Workspace is a lazily created temporary directory with a single owner.
//
// The directory is created on first use and removed by Close. Close is
// idempotent and safe to call when the directory was never created.
type Workspace struct {
	parent  string
	pattern string

	mu     sync.Mutex
	root   string
	last   string
	closed bool
}

// 🏭 New returns a workspace that will be created under os.TempDir.
func New(pattern string) *Workspace {
	return NewIn("", pattern)
}

// 🏭 NewIn returns a workspace that will be created under parent.
func NewIn(parent, pattern string) *Workspace {
	if pattern == "" {
		pattern = "textproc-*"
	}
	return &Workspace{parent: parent, pattern: pattern}
}

// 📂 Dir returns the workspace root, creating it on first call.
func (w *Workspace) Dir() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirLocked()
}

func (w *Workspace) dirLocked() (string, error) {
	if w.closed {
		return "", errors.New("workspace already released")
	}
	if w.root != "" {
		return w.root, nil
	}
	dir, err := os.MkdirTemp(w.parent, w.pattern)
	if err != nil {
		return "", errors.Errorf("creating workspace: %w", err)
	}
	w.root = dir
	w.last = dir
	return dir, nil
}

// 📁 Sub creates a fresh, uniquely named sub-directory for one collector.
func (w *Workspace) Sub(name string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	root, err := w.dirLocked()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(root, sanitize(name)+"-")
	if err != nil {
		return "", errors.Errorf("creating workspace sub-directory: %w", err)
	}
	return dir, nil
}

// 🔒 Within joins elem onto base and refuses results outside base.
func Within(base string, elem ...string) (string, error) {
	joined := filepath.Join(append([]string{base}, elem...)...)
	rel, err := filepath.Rel(base, joined)
	if err != nil {
		return "", errors.Errorf("%w: %s", ErrEscape, filepath.Join(elem...))
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%w: %s", ErrEscape, filepath.Join(elem...))
	}
	return joined, nil
}

// Created reports whether the directory currently exists on disk.
func (w *Workspace) Created() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.root != "" && !w.closed
}

// Location returns the path the workspace was created at, or "" if it never
// was. The value survives Close so callers can verify removal.
func (w *Workspace) Location() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// 🧹 Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.root == "" {
		return nil
	}
	root := w.root
	w.root = ""
	if err := os.RemoveAll(root); err != nil {
		return errors.Errorf("removing workspace %s: %w", root, err)
	}
	return nil
}

func sanitize(name string) string {
	if name == "" {
		return "sub"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
