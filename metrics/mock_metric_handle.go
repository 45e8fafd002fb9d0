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

	"github.com/stretchr/testify/mock"
)

type MockMetricHandle struct {
	mock.Mock
}

func (m *MockMetricHandle) BufferedReadRefillLatency(ctx context.Context, latency time.Duration) {
	m.Called(ctx, latency)
}

func (m *MockMetricHandle) GcsDownloadBytesCount(inc int64) {
	m.Called(inc)
}

func (m *MockMetricHandle) GcsReadBytesCount(inc int64) {
	m.Called(inc)
}

func (m *MockMetricHandle) GcsReadCount(inc int64) {
	m.Called(inc)
}

func (m *MockMetricHandle) GcsReaderCount(inc int64, ioMethod string) {
	m.Called(inc, ioMethod)
}

func (m *MockMetricHandle) GcsRequestCount(inc int64, gcsMethod string) {
	m.Called(inc, gcsMethod)
}

func (m *MockMetricHandle) GcsRequestErrorCount(inc int64, gcsMethod string, errorCategory string) {
	m.Called(inc, gcsMethod, errorCategory)
}

func (m *MockMetricHandle) GcsRequestLatencies(ctx context.Context, latency time.Duration, gcsMethod string) {
	m.Called(ctx, latency, gcsMethod)
}
