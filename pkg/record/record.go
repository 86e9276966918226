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

// Package record holds the output schema shared by the writers and the
// chained-input reader.
package record

import (
	"encoding/json"
	"sort"
	"time"

	"gitlab.com/tozd/go/errors"
)

const (
	// TypeRecord is the JSONL discriminator for processing records.
	TypeRecord = "record"

	// ChainID is the source id of the single combined chained document.
	ChainID = "combined-input"

	// ChainSeparator sits between consecutive texts of a combined chain
	// document. It is part of the output contract.
	ChainSeparator = "\n\n=====[ textproc:document-boundary ]=====\n\n"

	// TimestampFormat is used for Record.Timestamp.
	TimestampFormat = time.RFC3339
)

// 📄 Record is one model input/output pair. Values are never mutated after
// construction.
type Record struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source"`
	// Prompt is the template with its {text} placeholder, not the filled
	// prompt, so document text never reaches the output.
	Prompt       string `json:"prompt"`
	Model        string `json:"model"`
	Response     string `json:"response"`
	Timestamp    string `json:"timestamp"`
	CharCountIn  int    `json:"char_count_in"`
	CharCountOut int    `json:"char_count_out"`
}

// Tagged returns a copy carrying the JSONL discriminator.
func (r Record) Tagged() Record {
	r.Type = TypeRecord
	return r
}

// 📊 Meta describes one run in the JSON envelope
type Meta struct {
	RunID       string `json:"run_id"`
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	Source      string `json:"source"`
	Count       int    `json:"count"`
	Skipped     int    `json:"skipped"`
	GeneratedAt string `json:"generated_at"`
}

// 📦 Envelope is the single-document JSON output
type Envelope struct {
	Meta    Meta     `json:"meta"`
	Records []Record `json:"records"`
}

// chainFields lists, in order of preference, the fields read back from a
// prior run. "result" is what older runs wrote.
var chainFields = []string{"response", "result"}

// ErrNoText means a chain line parsed but carried no usable text.
var ErrNoText = errors.Base("no text field")

// 🔗 ChainText pulls the textual payload out of one JSONL line. ok is false
// for lines that should be ignored (a non-record type discriminator).
func ChainText(line []byte) (text string, ok bool, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return "", false, errors.Errorf("parsing line: %w", err)
	}

	if raw, has := fields["type"]; has {
		var typ string
		if json.Unmarshal(raw, &typ) == nil && typ != "" && typ != TypeRecord {
			return "", false, nil
		}
	}

	for _, name := range chainFields {
		if raw, has := fields[name]; has {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				return s, true, nil
			}
		}
	}

	// fall back to the only string-valued field, if exactly one exists
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var found []string
	for _, name := range names {
		if name == "type" {
			continue
		}
		var s string
		if json.Unmarshal(fields[name], &s) == nil {
			found = append(found, s)
		}
	}
	if len(found) == 1 {
		return found[0], true, nil
	}
	return "", false, errors.Errorf("%w: %d string fields", ErrNoText, len(found))
}
