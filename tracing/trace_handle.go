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

package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	// BufferedReaderRefill covers one range request that refills a reader's
	// buffer.
	BufferedReaderRefill = "BufferedReader.Refill"
	// OpenReader covers the metadata lookup done when a reader is created.
	OpenReader = "BufferedReader.Open"
	// StreamObject covers copying one whole object to its destination.
	StreamObject = "Stream.Object"
)

// TraceHandle provides an interface for recording traces, so that a no-op
// implementation can stand in when tracing is disabled.
type TraceHandle interface {
	// Start a span with a given name & context
	StartSpan(ctx context.Context, traceName string) (context.Context, trace.Span)

	// End a span
	EndSpan(span trace.Span)

	// Record an error on the span for export in case of failure
	RecordError(span trace.Span, err error)
}
