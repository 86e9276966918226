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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textproc/pkg/record"
)

// 🤖 fakeOllama answers /api/tags and /api/generate
type fakeOllama struct {
	*httptest.Server
	mu     sync.Mutex
	models []string
	seen   []string
}

func newFakeOllama(t *testing.T) *fakeOllama {
	t.Helper()
	f := &fakeOllama{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"mistral"}]}`))
		case "/api/generate":
			var req struct {
				Model  string `json:"model"`
				Prompt string `json:"prompt"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.mu.Lock()
			f.models = append(f.models, req.Model)
			f.seen = append(f.seen, req.Prompt)
			f.mu.Unlock()
			lines := strings.Split(req.Prompt, "\n")
			_ = json.NewEncoder(w).Encode(map[string]any{"model": req.Model, "response": "got " + lines[len(lines)-1], "done": true})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

// generated returns the models used so far and resets the record
func (f *fakeOllama) generated() (models, prompts []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	models, prompts = f.models, f.seen
	f.models, f.seen = nil, nil
	return models, prompts
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("beta"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.png"), []byte("not text"), 0o644))
	return dir
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "textproc version info")
	assert.Contains(t, res.stdout, "Go:")
}

func TestProcessDirectoryToJSON(t *testing.T) {
	srv := newFakeOllama(t)
	dir := writeDocs(t)
	out := filepath.Join(t.TempDir(), "results.json")

	res := runCLI(t, "process", dir, "--summarize", "--ollama-url", srv.URL, "-o", out, "--config", writeConfig(t, "empty.yaml", ""))
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var env record.Envelope
	require.NoError(t, json.Unmarshal(data, &env))

	require.Len(t, env.Records, 2)
	assert.Equal(t, filepath.Join(dir, "a.txt"), env.Records[0].Source)
	assert.Equal(t, "got alpha", env.Records[0].Response)
	assert.Equal(t, filepath.Join(dir, "b.md"), env.Records[1].Source)
	assert.Equal(t, 2, env.Meta.Count)
	assert.Equal(t, "llama3.2", env.Meta.Model)
	assert.NotEmpty(t, env.Meta.RunID)

	assert.Contains(t, res.stderr, "2 processed")
	assert.Contains(t, res.stderr, out)
}

func TestProcessJSONLToStdout(t *testing.T) {
	srv := newFakeOllama(t)
	dir := writeDocs(t)

	res := runCLI(t, "process", filepath.Join(dir, "a.txt"), "--jsonl", "--skip-check", "--ollama-url", srv.URL, "-p", "Echo:\n{text}", "--config", writeConfig(t, "empty.yaml", ""))
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 1)
	var rec record.Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, record.TypeRecord, rec.Type)
	assert.Equal(t, "got alpha", rec.Response)
	assert.Equal(t, "Echo:\n{text}", rec.Prompt)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	srv := newFakeOllama(t)
	dir := writeDocs(t)

	cfgPath := writeConfig(t, "textproc.yaml", "model: mistral\nollama_url: "+srv.URL+"\nextensions: [md]\n")

	out := filepath.Join(t.TempDir(), "r.jsonl")
	res := runCLI(t, "process", dir, "--config", cfgPath, "--jsonl", "-o", out)
	require.Equal(t, 0, res.code, res.stderr)
	models, _ := srv.generated()
	assert.Equal(t, []string{"mistral"}, models, "file model and extensions apply")

	res = runCLI(t, "process", dir, "--config", cfgPath, "--jsonl", "-o", out, "-m", "llama3.2", "-e", "txt,md")
	require.Equal(t, 0, res.code, res.stderr)
	models, _ = srv.generated()
	assert.Equal(t, []string{"llama3.2", "llama3.2"}, models, "flags override the file")
}

func TestProcessFailures(t *testing.T) {
	srv := newFakeOllama(t)
	dir := writeDocs(t)
	empty := writeConfig(t, "empty.yaml", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing_source",
			args: []string{"process", filepath.Join(dir, "*.rst"), "--ollama-url", srv.URL},
			want: "no files found",
		},
		{
			name: "conflicting_operations",
			args: []string{"process", dir, "--summarize", "--analyze"},
			want: "summarize",
		},
		{
			name: "bad_prompt",
			args: []string{"process", dir, "-p", "no placeholder", "--ollama-url", srv.URL},
			want: "{text}",
		},
		{
			name: "unreachable_ollama",
			args: []string{"process", dir, "--ollama-url", "http://127.0.0.1:1"},
			want: "model unavailable",
		},
		{
			name: "no_source",
			args: []string{"process"},
			want: "accepts 1 arg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, append(tt.args, "--config", empty)...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.want)
			_, prompts := srv.generated()
			assert.Empty(t, prompts, "no model calls on fatal errors")
		})
	}
}

func TestCheck(t *testing.T) {
	srv := newFakeOllama(t)
	empty := writeConfig(t, "empty.yaml", "")

	res := runCLI(t, "check", "--ollama-url", srv.URL, "--config", empty)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "llama3.2:latest")
	assert.Contains(t, res.stderr, "mistral")
	assert.Contains(t, res.stderr, "Model llama3.2 installed")

	res = runCLI(t, "check", "--ollama-url", "http://127.0.0.1:1", "--config", empty)
	assert.Equal(t, 1, res.code)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
