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

package gcsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/internal/logger"
	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
	"github.com/googlecloudplatform/gcsstream/metrics"
	"github.com/googlecloudplatform/gcsstream/tracing"
)

// DefaultBufferSize is the window fetched by one range request when
// ReaderConfig.BufferSize is not positive.
const DefaultBufferSize = cfg.DefaultBufferSizeBytes

// ReaderConfig tunes a BufferedRangeReader. The zero value is usable.
type ReaderConfig struct {
	// BufferSize is the maximum number of bytes fetched by one range request.
	BufferSize int64

	MetricHandle metrics.MetricHandle
	TraceHandle  tracing.TraceHandle
}

// BufferedRangeReader reads a GCS object front to back, fetching it in
// windows of at most BufferSize bytes with one range request per window.
//
// A reader is not safe for concurrent use. Independent readers over the same
// bucket may be used concurrently.
type BufferedRangeReader struct {
	// ctx is the context all range requests are made under.
	ctx    context.Context
	bucket gcs.Bucket

	// object is the metadata observed at construction. Reads are pinned to
	// its generation.
	object *gcs.MinObject
	size   int64

	// capacity is the largest window a refill may request.
	//
	// INVARIANT: capacity > 0
	capacity int64

	// offset is the object offset of the next byte handed to the caller.
	//
	// INVARIANT: 0 <= offset <= size
	// INVARIANT: buf.exhausted() || buf.start+int64(buf.off) == offset
	offset int64

	buf    rangeBuffer
	closed bool

	metricHandle metrics.MetricHandle
	traceHandle  tracing.TraceHandle
}

// NewBufferedRangeReader looks up the named object and returns a reader
// positioned at its first byte. No object data is fetched until the first
// Read. ctx governs every request the reader makes.
func NewBufferedRangeReader(ctx context.Context, bucket gcs.Bucket, objectName string, config ReaderConfig) (*BufferedRangeReader, error) {
	r := &BufferedRangeReader{
		ctx:          ctx,
		bucket:       bucket,
		capacity:     config.BufferSize,
		metricHandle: config.MetricHandle,
		traceHandle:  config.TraceHandle,
	}
	if r.capacity <= 0 {
		r.capacity = DefaultBufferSize
	}
	if r.metricHandle == nil {
		r.metricHandle = metrics.NewNoopMetrics()
	}
	if r.traceHandle == nil {
		r.traceHandle = tracing.NewNoopTracer()
	}

	spanCtx, span := r.traceHandle.StartSpan(ctx, tracing.OpenReader)
	defer r.traceHandle.EndSpan(span)

	o, err := bucket.StatObject(spanCtx, &gcs.StatObjectRequest{Name: objectName})
	if err != nil {
		r.traceHandle.RecordError(span, err)
		return nil, fmt.Errorf("StatObject %q: %w", objectName, err)
	}

	r.object = o
	r.size = int64(o.Size)
	logger.Debugf("Opened gs://%s/%s (generation %d, %d bytes) with a %d byte window",
		bucket.Name(), o.Name, o.Generation, r.size, r.capacity)
	return r, nil
}

func (r *BufferedRangeReader) checkInvariants() {
	if r.capacity <= 0 {
		panic(fmt.Sprintf("Illegal capacity: %d", r.capacity))
	}
	if r.offset < 0 || r.offset > r.size {
		panic(fmt.Sprintf("Offset %d out of range [0, %d]", r.offset, r.size))
	}
	if !r.buf.exhausted() && r.buf.start+int64(r.buf.off) != r.offset {
		panic(fmt.Sprintf("Buffer at %d+%d disagrees with offset %d", r.buf.start, r.buf.off, r.offset))
	}
}

// Object returns the metadata the reader was opened with.
func (r *BufferedRangeReader) Object() *gcs.MinObject {
	return r.object
}

// Size returns the length of the object in bytes.
func (r *BufferedRangeReader) Size() int64 {
	return r.size
}

// Offset returns the number of bytes handed out so far.
func (r *BufferedRangeReader) Offset() int64 {
	return r.offset
}

// Read copies up to len(p) bytes into p, never past the end of the object.
// It drains the current buffer first and, when that leaves p unfilled,
// performs at most one range request per call to continue from the next
// window. A failed refill after some bytes were copied returns those bytes;
// the next call reports the error. Read returns 0, io.EOF once every byte of
// the object has been read.
func (r *BufferedRangeReader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, ErrReaderClosed
	}
	if r.offset >= r.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	if remaining := r.size - r.offset; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n := r.buf.read(p)
	r.offset += int64(n)

	if n < len(p) {
		if err := r.refill(); err != nil {
			if n == 0 {
				r.checkInvariants()
				return 0, err
			}
			logger.Debugf("Refill of %q at %d failed after copying %d bytes: %v", r.object.Name, r.offset, n, err)
		} else {
			m := r.buf.read(p[n:])
			r.offset += int64(m)
			n += m
		}
	}
	r.metricHandle.GcsReadBytesCount(int64(n))

	r.checkInvariants()
	return n, nil
}

// refill replaces the buffer with the window starting at the current offset.
// On failure the buffer is left empty so the next Read retries the same
// window.
//
// REQUIRES: r.offset < r.size
func (r *BufferedRangeReader) refill() (err error) {
	byteRange := gcs.ByteRange{
		Start: uint64(r.offset),
		Limit: uint64(min(r.offset+r.capacity, r.size)),
	}

	ctx, span := r.traceHandle.StartSpan(r.ctx, tracing.BufferedReaderRefill)
	start := time.Now()
	defer func() {
		if err != nil {
			r.traceHandle.RecordError(span, err)
			r.buf.discard()
		}
		r.traceHandle.EndSpan(span)
	}()

	r.metricHandle.GcsReadCount(1)
	rc, err := r.bucket.NewReader(ctx, &gcs.ReadObjectRequest{
		Name:       r.object.Name,
		Generation: r.object.Generation,
		Range:      &byteRange,
	})
	if err != nil {
		return fmt.Errorf("NewReader %q %v: %w", r.object.Name, byteRange, err)
	}

	if r.buf.data == nil {
		r.buf.data = make([]byte, 0, min(r.capacity, r.size))
	}
	want := int(byteRange.Len())

	// A body longer than the window is cut off at the window; a shorter one
	// is kept as is.
	n, err := io.ReadFull(rc, r.buf.data[:want])
	if closeErr := rc.Close(); closeErr != nil {
		logger.Warnf("Closing body of %q %v: %v", r.object.Name, byteRange, closeErr)
	}
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		err = nil
	case err != nil:
		var transportErr *gcs.TransportError
		if !errors.As(err, &transportErr) {
			err = &gcs.TransportError{Err: err}
		}
		return fmt.Errorf("reading body of %q %v: %w", r.object.Name, byteRange, err)
	}

	r.buf.data = r.buf.data[:n]
	r.buf.off = 0
	r.buf.start = r.offset
	r.metricHandle.GcsDownloadBytesCount(int64(n))
	r.metricHandle.BufferedReadRefillLatency(ctx, time.Since(start))

	if n < want {
		logger.Warnf("Short body for %q %v: got %d of %d bytes", r.object.Name, byteRange, n, want)
	}
	if n == 0 {
		return fmt.Errorf("empty body for %q %v: %w", r.object.Name, byteRange, io.ErrUnexpectedEOF)
	}

	logger.Tracef("Refilled %q %v with %d bytes in %v", r.object.Name, byteRange, n, time.Since(start))
	return nil
}

// Close releases the buffer. Close is idempotent.
func (r *BufferedRangeReader) Close() error {
	r.buf.release()
	r.closed = true
	return nil
}

// Seek always fails; the reader only moves forward.
func (r *BufferedRangeReader) Seek(offset int64, whence int) (int64, error) {
	return r.offset, &UnsupportedOperationError{Op: "Seek"}
}

// Write always fails; the reader is read-only.
func (r *BufferedRangeReader) Write(p []byte) (int, error) {
	return 0, &UnsupportedOperationError{Op: "Write"}
}

// Truncate always fails; the length of the object is fixed.
func (r *BufferedRangeReader) Truncate(size int64) error {
	return &UnsupportedOperationError{Op: "Truncate"}
}

// SetOffset always fails; use Read to advance.
func (r *BufferedRangeReader) SetOffset(offset int64) error {
	return &UnsupportedOperationError{Op: "SetOffset"}
}

// Flush always fails; there is nothing to write back.
func (r *BufferedRangeReader) Flush() error {
	return &UnsupportedOperationError{Op: "Flush"}
}
