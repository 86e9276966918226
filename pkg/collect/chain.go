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

package collect

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/record"
	"github.com/walteh/textproc/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// maxChainLine bounds a single JSONL line.
const maxChainLine = 64 << 20

// JSONLChain combines the responses of a prior run into one item.
type JSONLChain struct {
	spec source.JSONLChain
}

func (c *JSONLChain) Collect(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	f, err := os.Open(c.spec.Path)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrRead, err.Error())
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxChainLine)

	var texts []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		text, ok, err := record.ChainText(line)
		if err != nil {
			logger.Warn().Err(err).Str("file", c.spec.Path).Int("line", lineNo).Msg("skipping unreadable chained line")
			continue
		}
		if !ok {
			continue
		}
		texts = append(texts, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("%w: scanning %s: %s", ErrRead, c.spec.Path, err.Error())
	}

	if len(texts) == 0 {
		return nil, errors.Errorf("%w: %s", ErrEmptyChain, c.spec.Path)
	}

	combined := strings.Join(texts, record.ChainSeparator)
	logger.Debug().Str("file", c.spec.Path).Int("records", len(texts)).Int("chars", len(combined)).Msg("combined chained input")
	return &Result{Items: []Item{{ID: record.ChainID, Text: combined, ByteSize: int64(len(combined))}}}, nil
}
