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

package source

import (
	"fmt"
	"strings"
)

// 🏷️ Kind names one of the supported source shapes
type Kind string

const (
	KindLocalFile  Kind = "local_file"
	KindDirectory  Kind = "directory"
	KindS3Prefix   Kind = "s3_prefix"
	KindZipArchive Kind = "zip_archive"
	KindJSONLChain Kind = "jsonl_chain"
)

// 🧩 Spec is a resolved source. The set of implementations is closed.
type Spec interface {
	Kind() Kind
	String() string
	sealed()
}

// 📄 LocalFile is a single file on disk.
type LocalFile struct {
	Path string
}

// 📂 Directory is a directory tree, or a flat list of files when Files is set.
type Directory struct {
	Path       string
	Recursive  bool
	Extensions Extensions
	// Files holds a pre-expanded, sorted listing (glob with several matches).
	Files []string
}

// ☁️ S3Prefix is every object under Bucket/Prefix.
type S3Prefix struct {
	Bucket     string
	Prefix     string
	Extensions Extensions
}

// 🗜️ ZipArchive is a zip file whose matching entries become documents.
type ZipArchive struct {
	Path       string
	Extensions Extensions
}

// 🔗 JSONLChain is the JSONL output of a previous run.
type JSONLChain struct {
	Path string
}

func (LocalFile) Kind() Kind  { return KindLocalFile }
func (Directory) Kind() Kind  { return KindDirectory }
func (S3Prefix) Kind() Kind   { return KindS3Prefix }
func (ZipArchive) Kind() Kind { return KindZipArchive }
func (JSONLChain) Kind() Kind { return KindJSONLChain }

func (LocalFile) sealed()  {}
func (Directory) sealed()  {}
func (S3Prefix) sealed()   {}
func (ZipArchive) sealed() {}
func (JSONLChain) sealed() {}

func (s LocalFile) String() string { return s.Path }

func (s Directory) String() string {
	if s.Files != nil {
		return fmt.Sprintf("%s (%d files)", s.Path, len(s.Files))
	}
	return s.Path
}

func (s S3Prefix) String() string {
	return S3Scheme + s.Bucket + "/" + s.Prefix
}

func (s ZipArchive) String() string { return s.Path }
func (s JSONLChain) String() string { return s.Path }

// 🔎 Extensions is a normalized, case-insensitive set of file suffixes.
type Extensions []string

// DefaultExtensions are used when the caller configures none.
var DefaultExtensions = Extensions{".txt", ".md", ".log", ".csv"}

// NormalizeExtensions lowercases entries, adds a leading dot, drops blanks
// and duplicates. An empty input yields DefaultExtensions.
func NormalizeExtensions(exts []string) Extensions {
	seen := make(map[string]bool, len(exts))
	out := make(Extensions, 0, len(exts))
	for _, e := range exts {
		for _, part := range strings.Split(e, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" || part == "." {
				continue
			}
			if !strings.HasPrefix(part, ".") {
				part = "." + part
			}
			if seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append(Extensions(nil), DefaultExtensions...)
	}
	return out
}

// Match reports whether name ends with one of the extensions.
func (e Extensions) Match(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range e {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
