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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// S3Scheme prefixes object-storage sources.
	S3Scheme = "s3://"
	// ArchiveExtension marks zip sources.
	ArchiveExtension = ".zip"
)

var (
	// ErrSourceResolution means the source could not be classified or located.
	ErrSourceResolution = errors.Base("source resolution failed")
	// ErrUnsupportedSource means the string matches no recognized shape.
	ErrUnsupportedSource = errors.BaseWrap(ErrSourceResolution, "unsupported source")
	// ErrNoFilesFound means a glob resolved to nothing.
	ErrNoFilesFound = errors.Base("no files found")
)

// 🔧 Options carries the caller's resolution flags
type Options struct {
	// Chain marks the source as the JSONL output of a prior run.
	Chain bool
	// Recursive controls directory walks.
	Recursive bool
	// Extensions filters directory, glob, S3 and zip members.
	Extensions Extensions
}

// 🎯 Resolve classifies raw into a Spec. First match wins:
// s3 scheme, existing zip, chain flag, directory, regular file, glob.
func Resolve(ctx context.Context, raw string, opts Options) (Spec, error) {
	logger := zerolog.Ctx(ctx)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.Errorf("%w: empty source", ErrUnsupportedSource)
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = append(Extensions(nil), DefaultExtensions...)
	}

	if strings.HasPrefix(strings.ToLower(raw), S3Scheme) {
		return parseS3(raw, exts)
	}
	if i := strings.Index(raw, "://"); i > 0 && !strings.ContainsAny(raw[:i], `/\*?[{`) {
		return nil, errors.Errorf("%w: scheme %q", ErrUnsupportedSource, raw[:i])
	}

	info, statErr := os.Stat(raw)
	exists := statErr == nil

	if exists && info.Mode().IsRegular() && strings.HasSuffix(strings.ToLower(raw), ArchiveExtension) {
		logger.Debug().Str("source", raw).Msg("resolved zip archive")
		return ZipArchive{Path: raw, Extensions: exts}, nil
	}

	if opts.Chain && exists {
		if !info.Mode().IsRegular() {
			return nil, errors.Errorf("%w: chained input %s is not a regular file", ErrSourceResolution, raw)
		}
		logger.Debug().Str("source", raw).Msg("resolved jsonl chain")
		return JSONLChain{Path: raw}, nil
	}

	if exists && info.IsDir() {
		logger.Debug().Str("source", raw).Bool("recursive", opts.Recursive).Msg("resolved directory")
		return Directory{Path: raw, Recursive: opts.Recursive, Extensions: exts}, nil
	}

	if exists && info.Mode().IsRegular() {
		if !exts.Match(raw) {
			logger.Warn().Str("source", raw).Strs("extensions", exts).Msg("file extension not in configured set, processing anyway")
		}
		return LocalFile{Path: raw}, nil
	}

	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) && !hasMeta(raw) {
		return nil, errors.Errorf("%w: %s: %s", ErrSourceResolution, raw, statErr.Error())
	}

	return resolveGlob(ctx, raw, exts)
}

func parseS3(raw string, exts Extensions) (Spec, error) {
	rest := raw[len(S3Scheme):]
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, errors.Errorf("%w: missing bucket in %q", ErrUnsupportedSource, raw)
	}
	return S3Prefix{Bucket: bucket, Prefix: prefix, Extensions: exts}, nil
}

func resolveGlob(ctx context.Context, raw string, exts Extensions) (Spec, error) {
	logger := zerolog.Ctx(ctx)

	seen := map[string]bool{}
	var files []string
	for _, pattern := range strings.Split(raw, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, errors.Errorf("%w: bad pattern %q", ErrUnsupportedSource, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("%w: expanding %q: %s", ErrSourceResolution, pattern, err.Error())
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			logger.Warn().Str("pattern", pattern).Msg("no files found matching path")
		}
		for _, m := range matches {
			if seen[m] || !exts.Match(m) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)

	switch len(files) {
	case 0:
		return nil, errors.Errorf("%w: %s", ErrNoFilesFound, raw)
	case 1:
		return LocalFile{Path: files[0]}, nil
	default:
		return Directory{Path: raw, Extensions: exts, Files: files}, nil
	}
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(filepath.ToSlash(pattern), "*?[{")
}
