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

package monitor

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
	"github.com/googlecloudplatform/gcsstream/metrics"
)

// NewMonitoringBucket returns a gcs.Bucket that exports request counts,
// latencies, error categories and reader lifetimes through the given handle.
func NewMonitoringBucket(b gcs.Bucket, m metrics.MetricHandle) gcs.Bucket {
	return &monitoringBucket{
		wrapped:      b,
		metricHandle: m,
	}
}

type monitoringBucket struct {
	wrapped      gcs.Bucket
	metricHandle metrics.MetricHandle
}

// errorCategory maps a bucket error onto a bounded set of attribute values.
func errorCategory(err error) string {
	var notFound *gcs.NotFoundError
	var transport *gcs.TransportError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ErrorCategoryCanceled
	case errors.As(err, &notFound):
		return metrics.ErrorCategoryNotFound
	case errors.As(err, &transport):
		return metrics.ErrorCategoryTransport
	default:
		return metrics.ErrorCategoryOther
	}
}

// recordRequest records a request, its latency and, on failure, its error
// category.
func recordRequest(ctx context.Context, m metrics.MetricHandle, method string, start time.Time, err error) {
	m.GcsRequestCount(1, method)
	m.GcsRequestLatencies(ctx, time.Since(start), method)
	if err != nil {
		m.GcsRequestErrorCount(1, method, errorCategory(err))
	}
}

func (mb *monitoringBucket) Name() string {
	return mb.wrapped.Name()
}

func (mb *monitoringBucket) StatObject(ctx context.Context, req *gcs.StatObjectRequest) (*gcs.MinObject, error) {
	startTime := time.Now()
	o, err := mb.wrapped.StatObject(ctx, req)
	recordRequest(ctx, mb.metricHandle, metrics.GcsMethodStatObject, startTime, err)
	return o, err
}

func (mb *monitoringBucket) NewReader(ctx context.Context, req *gcs.ReadObjectRequest) (io.ReadCloser, error) {
	startTime := time.Now()
	rc, err := mb.wrapped.NewReader(ctx, req)
	if err == nil {
		rc = newMonitoringReadCloser(mb.metricHandle, rc)
	}
	recordRequest(ctx, mb.metricHandle, metrics.GcsMethodNewReader, startTime, err)
	return rc, err
}

// Monitoring on the object reader
func newMonitoringReadCloser(m metrics.MetricHandle, rc io.ReadCloser) io.ReadCloser {
	m.GcsReaderCount(1, metrics.IoMethodOpened)
	return &monitoringReadCloser{
		wrapped:      rc,
		metricHandle: m,
	}
}

type monitoringReadCloser struct {
	wrapped      io.ReadCloser
	metricHandle metrics.MetricHandle
	closed       bool
}

func (mrc *monitoringReadCloser) Read(p []byte) (int, error) {
	return mrc.wrapped.Read(p)
}

func (mrc *monitoringReadCloser) Close() error {
	err := mrc.wrapped.Close()
	if !mrc.closed {
		mrc.closed = true
		mrc.metricHandle.GcsReaderCount(1, metrics.IoMethodClosed)
	}
	return err
}
