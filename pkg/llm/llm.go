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

// Package llm defines the language-model collaborator.
package llm

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrModelUnavailable means the model service could not be reached.
	ErrModelUnavailable = errors.Base("model unavailable")
	// ErrModelTimeout means the call did not complete in time.
	ErrModelTimeout = errors.Base("model timeout")
)

// 🤖 Client generates text for a prompt. A single call, no retries.
type Client interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// 🩺 Checker is implemented by clients that can report reachability and
// installed models.
type Checker interface {
	Ping(ctx context.Context) error
	Models(ctx context.Context) ([]string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate implements Client.
func (f ClientFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}
