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

package metrics

import (
	"context"
	"time"
)

// Values of the gcs_method attribute.
const (
	GcsMethodNewReader  = "NewReader"
	GcsMethodStatObject = "StatObject"
)

// Values of the io_method attribute.
const (
	IoMethodClosed = "closed"
	IoMethodOpened = "opened"
)

// Values of the error_category attribute.
const (
	ErrorCategoryCanceled  = "CANCELED"
	ErrorCategoryNotFound  = "NOT_FOUND"
	ErrorCategoryOther     = "OTHER"
	ErrorCategoryTransport = "TRANSPORT"
)

// MetricHandle provides an interface for recording metrics.
// Counter methods drop negative increments; attribute values outside the
// constants above are dropped and reported in a sampled log line.
type MetricHandle interface {
	// BufferedReadRefillLatency - The cumulative distribution of the time taken to refill a reader's buffer with one range request.
	BufferedReadRefillLatency(ctx context.Context, latency time.Duration)

	// GcsDownloadBytesCount - The cumulative number of bytes downloaded from GCS into reader buffers.
	GcsDownloadBytesCount(inc int64)

	// GcsReadBytesCount - The cumulative number of bytes handed to callers by readers.
	GcsReadBytesCount(inc int64)

	// GcsReadCount - The cumulative number of range requests issued by readers.
	GcsReadCount(inc int64)

	// GcsReaderCount - The cumulative number of GCS object readers opened or closed.
	GcsReaderCount(inc int64, ioMethod string)

	// GcsRequestCount - The cumulative number of GCS requests processed along with the GCS method.
	GcsRequestCount(inc int64, gcsMethod string)

	// GcsRequestErrorCount - The cumulative number of failed GCS requests along with the GCS method and error category.
	GcsRequestErrorCount(inc int64, gcsMethod string, errorCategory string)

	// GcsRequestLatencies - The cumulative distribution of the GCS request latencies.
	GcsRequestLatencies(ctx context.Context, latency time.Duration, gcsMethod string)
}
