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

package prompt

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Placeholder is replaced with the document text.
const Placeholder = "{text}"

// 🧰 Operation names a built-in template
type Operation string

const (
	OperationSummarize Operation = "summarize"
	OperationAnalyze   Operation = "analyze"
	OperationExtract   Operation = "extract"
	// OperationDefault is used when neither an operation nor a custom
	// template was requested.
	OperationDefault Operation = "process"
)

var canned = map[Operation]string{
	OperationSummarize: "Please summarize the following text in 2-3 sentences:\n\n" + Placeholder,
	OperationAnalyze:   "Please analyze the following text and identify the main topics, tone, and key points:\n\n" + Placeholder,
	OperationExtract:   "Extract the key information, facts, and important details from the following text:\n\n" + Placeholder,
	OperationDefault:   "Process the following text and provide insights:\n\n" + Placeholder,
}

// 📝 Template is a prompt with a {text} placeholder
type Template string

// ForOperation returns the built-in template for op.
func ForOperation(op Operation) (Template, error) {
	t, ok := canned[op]
	if !ok {
		return "", errors.Errorf("unknown operation %q, options: %s", op, strings.Join(Operations(), ", "))
	}
	return Template(t), nil
}

// Operations lists the canned operation names.
func Operations() []string {
	out := make([]string, 0, len(canned))
	for op := range canned {
		out = append(out, string(op))
	}
	sort.Strings(out)
	return out
}

// Custom validates a caller-supplied template.
func Custom(raw string) (Template, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("prompt template is empty")
	}
	if !strings.Contains(raw, Placeholder) {
		return "", errors.Errorf("prompt template must contain %s", Placeholder)
	}
	return Template(raw), nil
}

// Build substitutes text into every placeholder.
func (t Template) Build(text string) string {
	return strings.ReplaceAll(string(t), Placeholder, text)
}

func (t Template) String() string { return string(t) }
