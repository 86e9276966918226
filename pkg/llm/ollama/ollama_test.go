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

package ollama_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textproc/pkg/llm"
	"github.com/walteh/textproc/pkg/llm/ollama"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func newServer(t *testing.T, handler http.HandlerFunc) *ollama.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	return ollama.New(ollama.Options{Endpoint: srv.URL + "/", Timeout: 2 * time.Second, HTTPClient: hc})
}

func TestGenerate(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req["model"])
		assert.Equal(t, "Summarize: hi", req["prompt"])
		assert.Equal(t, false, req["stream"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","response":"a greeting","done":true}`))
	})

	out, err := client.Generate(testContext(t), "llama3.2", "Summarize: hi")
	require.NoError(t, err)
	assert.Equal(t, "a greeting", out)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantIs   error
		contains string
	}{
		{
			name: "server_error_is_unavailable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model loading failed", http.StatusInternalServerError)
			},
			wantIs:   llm.ErrModelUnavailable,
			contains: "status 500",
		},
		{
			name: "not_found_is_plain",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"model 'nope' not found"}`, http.StatusNotFound)
			},
			contains: "status 404",
		},
		{
			name: "error_field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":"out of memory"}`))
			},
			contains: "ollama error: out of memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, tt.handler)
			_, err := client.Generate(testContext(t), "m", "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs), "got %v", err)
			}
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	hc := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	client := ollama.New(ollama.Options{Endpoint: srv.URL, Timeout: 50 * time.Millisecond, HTTPClient: hc})

	_, err := client.Generate(testContext(t), "m", "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrModelTimeout), "got %v", err)
}

func TestGenerateConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	hc := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	client := ollama.New(ollama.Options{Endpoint: "http://" + addr, HTTPClient: hc})

	_, err = client.Generate(testContext(t), "m", "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrModelUnavailable), "got %v", err)
}

func TestModelsAndPing(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"mistral:7b"}]}`))
	})

	models, err := client.Models(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.2:latest", "mistral:7b"}, models)
	require.NoError(t, client.Ping(testContext(t)))
}

func TestDefaults(t *testing.T) {
	client := ollama.New(ollama.Options{})
	assert.Equal(t, ollama.DefaultEndpoint, client.Endpoint())
}
