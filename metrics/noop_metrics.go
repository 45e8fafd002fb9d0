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

func NewNoopMetrics() MetricHandle {
	var n noopMetrics
	return &n
}

type noopMetrics struct{}

func (*noopMetrics) BufferedReadRefillLatency(ctx context.Context, latency time.Duration) {}

func (*noopMetrics) GcsDownloadBytesCount(inc int64) {}

func (*noopMetrics) GcsReadBytesCount(inc int64) {}

func (*noopMetrics) GcsReadCount(inc int64) {}

func (*noopMetrics) GcsReaderCount(inc int64, ioMethod string) {}

func (*noopMetrics) GcsRequestCount(inc int64, gcsMethod string) {}

func (*noopMetrics) GcsRequestErrorCount(inc int64, gcsMethod string, errorCategory string) {}

func (*noopMetrics) GcsRequestLatencies(ctx context.Context, latency time.Duration, gcsMethod string) {
}
