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

package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/collect"
	"github.com/walteh/textproc/pkg/config"
	"github.com/walteh/textproc/pkg/llm"
	"github.com/walteh/textproc/pkg/log"
	"github.com/walteh/textproc/pkg/output"
	"github.com/walteh/textproc/pkg/processor"
	"github.com/walteh/textproc/pkg/record"
	"github.com/walteh/textproc/pkg/remote"
	"github.com/walteh/textproc/pkg/source"
	"github.com/walteh/textproc/pkg/status"
	"github.com/walteh/textproc/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is anything the Runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// StoreFactory builds the object store for a remote source on demand.
type StoreFactory func(ctx context.Context) (remote.ObjectStore, error)

// 🔧 Options contains configuration for a processing job
type Options struct {
	// Config must already be validated
	Config *config.Config
	// Source is the raw source string
	Source string
	// Chain treats Source as the JSONL output of a prior run
	Chain bool
	// Client is the model collaborator
	Client llm.Client
	// Writer receives the records
	Writer output.Writer
	// Stores builds the object store for s3 sources. Defaults to the
	// registered "s3" store configured from Config.S3.
	Stores StoreFactory
	// Workspace is owned and released by the job. Defaults to a new one
	// under os.TempDir.
	Workspace *workspace.Workspace
	// Console is optional per-item console output
	Console *log.Logger
	// Now and NewRunID are overridable for tests
	Now      func() time.Time
	NewRunID func() string
}

// 📊 Result describes a finished run
type Result struct {
	Spec    source.Spec
	Meta    record.Meta
	Counts  status.Counts
	Skipped []collect.Skip
	Failed  []collect.Skip
}

// 🎮 Job implements Operation for one processing run
type Job struct {
	opts   Options
	result *Result
}

var _ Operation = (*Job)(nil)

// 🏭 New creates a new job with the given options
func New(opts Options) (*Job, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Client == nil {
		return nil, errors.Errorf("model client is required")
	}
	if opts.Writer == nil {
		return nil, errors.Errorf("output writer is required")
	}
	if opts.Workspace == nil {
		opts.Workspace = workspace.New("")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	if opts.Stores == nil {
		s3 := opts.Config.S3
		opts.Stores = func(ctx context.Context) (remote.ObjectStore, error) {
			return remote.NewStore(ctx, "s3", remote.Options{Region: s3.Region, Endpoint: s3.Endpoint, PathStyle: s3.PathStyle})
		}
	}
	return &Job{opts: opts}, nil
}

// Execute implements Operation.
func (j *Job) Execute(ctx context.Context) error {
	_, err := j.Run(ctx)
	return err
}

// Result returns the outcome of the last Execute, or nil.
func (j *Job) Result() *Result {
	return j.result
}

// 🚀 Run executes the job. The workspace is gone when Run returns.
func (j *Job) Run(ctx context.Context) (res *Result, err error) {
	logger := zerolog.Ctx(ctx)
	cfg := j.opts.Config

	defer func() {
		if cerr := j.opts.Workspace.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("releasing workspace")
		}
	}()

	if err := j.preflight(ctx); err != nil {
		return nil, err
	}

	tmpl, err := cfg.Template()
	if err != nil {
		return nil, errors.Errorf("building prompt template: %w", err)
	}

	spec, err := source.Resolve(ctx, j.opts.Source, source.Options{
		Chain:      j.opts.Chain,
		Recursive:  cfg.Recursive,
		Extensions: source.NormalizeExtensions(cfg.Extensions),
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("source", spec.String()).Str("kind", string(spec.Kind())).Msg("resolved source")

	if j.opts.Console != nil {
		j.opts.Console.StartRun(ctx, log.RunHeader{Source: j.opts.Source, Kind: string(spec.Kind()), Model: cfg.Model, Output: cfg.Output})
		defer j.opts.Console.EndRun(ctx)
	}

	deps := collect.Deps{Workspace: j.opts.Workspace}
	if _, ok := spec.(source.S3Prefix); ok {
		store, err := j.opts.Stores(ctx)
		if err != nil {
			return nil, errors.Errorf("%w: creating object store: %s", source.ErrSourceResolution, err.Error())
		}
		deps.Store = store
	}

	collector, err := collect.ForSpec(spec, deps)
	if err != nil {
		return nil, err
	}
	collected, err := collector.Collect(ctx)
	if err != nil {
		return nil, errors.Errorf("collecting %s: %w", spec, err)
	}
	if len(collected.Items) == 0 {
		logger.Warn().Str("source", spec.String()).Msg("no valid files found to process")
	}
	if j.opts.Console != nil {
		if len(collected.Items) == 0 {
			j.opts.Console.Warningf("no valid files found in %s", spec)
		} else {
			j.opts.Console.Infof("collected %d documents, %d skipped", len(collected.Items), len(collected.Skipped))
		}
	}

	var lines status.ItemLogger
	if j.opts.Console != nil {
		lines = j.opts.Console
	}
	tracker := status.New(lines)
	tracker.Start(ctx, len(collected.Items))
	for _, s := range collected.Skipped {
		tracker.Track(ctx, status.ItemEvent{ID: s.ID, Status: status.StatusSkipped, Err: s.Err})
	}

	proc, err := processor.New(processor.Options{
		Client:   j.opts.Client,
		Model:    cfg.Model,
		Template: tmpl,
		Now:      j.opts.Now,
		Reporter: tracker,
	})
	if err != nil {
		return nil, err
	}

	if err := j.opts.Writer.Open(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			j.opts.Writer.Abort()
		}
	}()

	sum, err := proc.Process(ctx, collected.Items, j.opts.Writer.Write)
	if err != nil {
		return nil, err
	}

	meta := record.Meta{
		RunID:       j.opts.NewRunID(),
		Model:       cfg.Model,
		Prompt:      tmpl.String(),
		Source:      spec.String(),
		Count:       sum.Processed,
		Skipped:     len(collected.Skipped) + len(sum.Failed),
		GeneratedAt: j.opts.Now().UTC().Format(record.TimestampFormat),
	}
	if err := j.opts.Writer.Close(ctx, meta); err != nil {
		return nil, err
	}

	if j.opts.Console != nil && cfg.Output != "" {
		j.opts.Console.Successf("wrote %d records to %s", meta.Count, cfg.Output)
	}

	res = &Result{
		Spec:    spec,
		Meta:    meta,
		Counts:  tracker.Counts(),
		Skipped: collected.Skipped,
		Failed:  sum.Failed,
	}
	j.result = res
	logger.Info().Str("run_id", meta.RunID).Msg(tracker.Summary())
	return res, nil
}

func (j *Job) preflight(ctx context.Context) error {
	if j.opts.Config.SkipCheck {
		return nil
	}
	checker, ok := j.opts.Client.(llm.Checker)
	if !ok {
		return nil
	}
	if err := checker.Ping(ctx); err != nil {
		return errors.Errorf("checking model service: %w", err)
	}
	return nil
}
