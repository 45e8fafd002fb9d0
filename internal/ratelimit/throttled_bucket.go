// Copyright 2026 Google LLC
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

package ratelimit

import (
	"context"
	"io"

	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
)

// NewThrottledBucket returns a bucket that limits the rate at which it calls
// the wrapped bucket using opThrottle, and the bandwidth with which it reads
// object contents using egressThrottle. A nil throttle imposes no limit.
func NewThrottledBucket(opThrottle Throttle, egressThrottle Throttle, wrapped gcs.Bucket) gcs.Bucket {
	return &throttledBucket{
		opThrottle:     opThrottle,
		egressThrottle: egressThrottle,
		wrapped:        wrapped,
	}
}

type throttledBucket struct {
	opThrottle     Throttle
	egressThrottle Throttle
	wrapped        gcs.Bucket
}

type throttledReadCloser struct {
	io.Reader
	io.Closer
}

func (b *throttledBucket) waitForOp(ctx context.Context) error {
	if b.opThrottle == nil {
		return nil
	}
	return b.opThrottle.Wait(ctx, 1)
}

func (b *throttledBucket) Name() string {
	return b.wrapped.Name()
}

func (b *throttledBucket) StatObject(ctx context.Context, req *gcs.StatObjectRequest) (*gcs.MinObject, error) {
	if err := b.waitForOp(ctx); err != nil {
		return nil, err
	}
	return b.wrapped.StatObject(ctx, req)
}

func (b *throttledBucket) NewReader(ctx context.Context, req *gcs.ReadObjectRequest) (io.ReadCloser, error) {
	if err := b.waitForOp(ctx); err != nil {
		return nil, err
	}

	rc, err := b.wrapped.NewReader(ctx, req)
	if err != nil || b.egressThrottle == nil {
		return rc, err
	}

	return &throttledReadCloser{
		Reader: ThrottledReader(ctx, rc, b.egressThrottle),
		Closer: rc,
	}, nil
}
