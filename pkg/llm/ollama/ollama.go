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

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/llm"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultEndpoint is the local Ollama server.
	DefaultEndpoint = "http://localhost:11434"
	// DefaultTimeout bounds one generate call.
	DefaultTimeout = 5 * time.Minute
)

// 🔧 Options configures the client
type Options struct {
	Endpoint string
	Timeout  time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// 🎯 Client talks to the Ollama HTTP API
type Client struct {
	endpoint string
	timeout  time.Duration
	hc       *http.Client
}

var (
	_ llm.Client  = (*Client)(nil)
	_ llm.Checker = (*Client)(nil)
)

// 🏭 New creates a client; empty options fall back to the defaults.
func New(opts Options) *Client {
	endpoint := strings.TrimRight(opts.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{endpoint: endpoint, timeout: timeout, hc: hc}
}

// Endpoint returns the base URL in use.
func (c *Client) Endpoint() string { return c.endpoint }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// 📝 Generate implements llm.Client with a non-streaming /api/generate call.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	logger := zerolog.Ctx(ctx)

	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", errors.Errorf("marshalling request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", classify(ctx, errors.Errorf("decoding response: %w", err))
	}
	if out.Error != "" {
		return "", errors.Errorf("ollama error: %s", out.Error)
	}

	logger.Debug().
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Int("response_len", len(out.Response)).
		Msg("generate complete")

	return out.Response, nil
}

// 🩺 Ping checks that the server answers /api/tags.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Models(ctx)
	return err
}

// 📋 Models lists installed model names.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, errors.Errorf("decoding tags: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// classify maps transport failures onto the llm error taxonomy.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Errorf("%w: %s", llm.ErrModelTimeout, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Errorf("%w: %s", llm.ErrModelTimeout, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return errors.Errorf("calling model: %w", err)
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return errors.Errorf("%w: %s", llm.ErrModelUnavailable, err.Error())
	}
	return errors.Errorf("calling model: %w", err)
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(string(msg))
	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Errorf("%w: ollama returned status %d: %s", llm.ErrModelUnavailable, resp.StatusCode, text)
	}
	return errors.Errorf("ollama returned status %d: %s", resp.StatusCode, text)
}
