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

package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/walteh/textproc/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

func init() {
	remote.RegisterStore("s3", New)
}

// API is the subset of the S3 client used by Store.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// 🎯 Store implements remote.ObjectStore on top of the AWS SDK
type Store struct {
	api API
}

var _ remote.ObjectStore = (*Store)(nil)

// 🏭 New creates an S3 store using the ambient AWS credential chain.
func New(ctx context.Context, opts remote.Options) (remote.ObjectStore, error) {
	logger := zerolog.Ctx(ctx)

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	logger.Debug().
		Str("region", cfg.Region).
		Str("endpoint", opts.Endpoint).
		Bool("path_style", opts.PathStyle).
		Msg("created s3 store")

	return NewWithAPI(client), nil
}

// NewWithAPI wraps an existing client.
func NewWithAPI(api API) *Store {
	return &Store{api: api}
}

// Name implements remote.ObjectStore.
func (s *Store) Name() string { return "s3" }

// 📂 List implements remote.ObjectStore. Every page is drained before returning.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]remote.Object, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []remote.Object
	pages := s3.NewListObjectsV2Paginator(s.api, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, errors.Errorf("listing s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, remote.Object{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

// 📄 Get implements remote.ObjectStore.
func (s *Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Errorf("getting s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}
