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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T) (TraceHandle, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOTelTracer(), recorder
}

func TestOTelTracerRecordsSpans(t *testing.T) {
	th, recorder := newRecordingTracer(t)

	ctx, parent := th.StartSpan(context.Background(), StreamObject)
	_, child := th.StartSpan(ctx, BufferedReaderRefill)
	th.EndSpan(child)
	th.EndSpan(parent)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, BufferedReaderRefill, spans[0].Name())
	assert.Equal(t, StreamObject, spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestOTelTracerRecordError(t *testing.T) {
	th, recorder := newRecordingTracer(t)

	_, span := th.StartSpan(context.Background(), OpenReader)
	th.RecordError(span, errors.New("object not found"))
	th.RecordError(span, nil)
	th.EndSpan(span)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "object not found", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestNoopTracer(t *testing.T) {
	th := NewNoopTracer()
	ctx := context.Background()

	newCtx, span := th.StartSpan(ctx, StreamObject)
	th.RecordError(span, errors.New("ignored"))
	th.EndSpan(span)

	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.SpanContext().IsValid())
}
