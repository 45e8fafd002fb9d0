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

// Package fake provides an in-memory gcs.Bucket that records the requests it
// serves, for tests of code layered over a bucket.
package fake

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
	"github.com/googlecloudplatform/gcsstream/internal/util"
)

type fakeObject struct {
	metadata gcs.MinObject
	data     []byte
}

// Bucket is an in-memory gcs.Bucket. It is safe for concurrent use.
type Bucket struct {
	name string

	mu sync.Mutex

	// GUARDED_BY(mu)
	objects map[string]fakeObject
	// GUARDED_BY(mu)
	nextGeneration int64

	// GUARDED_BY(mu)
	statCount int
	// GUARDED_BY(mu)
	ranges []gcs.ByteRange

	// GUARDED_BY(mu)
	readErr error
	// GUARDED_BY(mu)
	maxBodyLen int
	// GUARDED_BY(mu)
	ignoreRange bool
}

var _ gcs.Bucket = &Bucket{}

// NewFakeBucket returns an empty bucket with the given name.
func NewFakeBucket(name string) *Bucket {
	return &Bucket{
		name:           name,
		objects:        make(map[string]fakeObject),
		nextGeneration: 1,
		maxBodyLen:     -1,
	}
}

////////////////////////////////////////////////////////////////////////
// Test controls
////////////////////////////////////////////////////////////////////////

// CreateObject stores contents under name, replacing any previous object, and
// returns the new metadata.
func (b *Bucket) CreateObject(name string, contents []byte) *gcs.MinObject {
	b.mu.Lock()
	defer b.mu.Unlock()

	crc := util.CRC32C(contents)
	o := fakeObject{
		metadata: gcs.MinObject{
			Name:        name,
			Size:        uint64(len(contents)),
			Generation:  b.nextGeneration,
			Updated:     time.Now(),
			ContentType: "application/octet-stream",
			CRC32C:      &crc,
		},
		data: bytes.Clone(contents),
	}
	b.nextGeneration++
	b.objects[name] = o

	m := o.metadata
	return &m
}

// DeleteObject removes the named object. Subsequent reads of it fail with
// *gcs.NotFoundError.
func (b *Bucket) DeleteObject(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, name)
}

// SetReadError makes every following NewReader call fail with err. A nil err
// restores normal reads.
func (b *Bucket) SetReadError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.readErr = err
}

// SetMaxBodyLen truncates every response body to at most n bytes. A negative
// n removes the limit.
func (b *Bucket) SetMaxBodyLen(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.maxBodyLen = n
}

// SetIgnoreRange makes NewReader return the object from the requested start
// to its end, like a server that serves more than the requested range.
func (b *Bucket) SetIgnoreRange(ignore bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ignoreRange = ignore
}

// StatCount returns the number of StatObject calls served so far.
func (b *Bucket) StatCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.statCount
}

// ReadCount returns the number of NewReader calls received so far, including
// failed ones.
func (b *Bucket) ReadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.ranges)
}

// Ranges returns the byte range requested by each NewReader call, in order.
// A request without a range is recorded as the full object.
func (b *Bucket) Ranges() []gcs.ByteRange {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]gcs.ByteRange(nil), b.ranges...)
}

////////////////////////////////////////////////////////////////////////
// gcs.Bucket
////////////////////////////////////////////////////////////////////////

func (b *Bucket) Name() string {
	return b.name
}

func (b *Bucket) StatObject(ctx context.Context, req *gcs.StatObjectRequest) (*gcs.MinObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.statCount++
	o, ok := b.objects[req.Name]
	if !ok {
		return nil, &gcs.NotFoundError{Err: errors.New("object " + req.Name + " not found")}
	}

	m := o.metadata
	return &m, nil
}

func (b *Bucket) NewReader(ctx context.Context, req *gcs.ReadObjectRequest) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &gcs.TransportError{Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.objects[req.Name]

	r := gcs.ByteRange{Start: 0, Limit: uint64(len(o.data))}
	if req.Range != nil {
		r = *req.Range
	}
	b.ranges = append(b.ranges, r)

	if b.readErr != nil {
		return nil, b.readErr
	}
	if !ok {
		return nil, &gcs.NotFoundError{Err: errors.New("object " + req.Name + " not found")}
	}
	if req.Generation != 0 && req.Generation != o.metadata.Generation {
		return nil, &gcs.NotFoundError{Err: errors.New("generation not found")}
	}

	size := uint64(len(o.data))
	if r.Start > size || (r.Start == size && size > 0) {
		return nil, &gcs.TransportError{
			StatusCode: http.StatusRequestedRangeNotSatisfiable,
			Err:        errors.New("requested range not satisfiable"),
		}
	}

	limit := min(r.Limit, size)
	if b.ignoreRange {
		limit = size
	}
	body := o.data[r.Start:max(limit, r.Start)]
	if b.maxBodyLen >= 0 && len(body) > b.maxBodyLen {
		body = body[:b.maxBodyLen]
	}

	return io.NopCloser(bytes.NewReader(bytes.Clone(body))), nil
}
