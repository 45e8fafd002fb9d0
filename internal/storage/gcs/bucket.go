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

package gcs

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Bucket represents a GCS bucket, pre-bound with a bucket name and necessary
// authorization information.
//
// Each method that may block accepts a context object that is used for
// deadlines and cancellation.
//
// All methods are safe for concurrent access.
type Bucket interface {
	Name() string

	// Return current metadata for the named object. Non-existent objects
	// cause an error of type *NotFoundError.
	//
	// Official documentation:
	//     https://cloud.google.com/storage/docs/json_api/v1/objects/get
	StatObject(
		ctx context.Context,
		req *StatObjectRequest) (*MinObject, error)

	// Create a reader for the contents of an object, optionally restricted to
	// req.Range. On a nil error, the caller must arrange for the reader to be
	// closed when it is no longer needed.
	//
	// Non-existent objects cause this method to return an error of type
	// *NotFoundError.
	//
	// Official documentation:
	//     https://cloud.google.com/storage/docs/json_api/v1/objects/get
	//     https://cloud.google.com/storage/docs/json_api/v1/parameters#range
	NewReader(
		ctx context.Context,
		req *ReadObjectRequest) (io.ReadCloser, error)
}

// MinObject is the subset of object metadata needed to stream an object.
type MinObject struct {
	Name string

	// Size in bytes. A missing size on the wire is reported as zero.
	Size uint64

	Generation  int64
	Updated     time.Time
	ContentType string

	// CRC32C checksum of the full object contents, in Castagnoli. Nil when the
	// backend didn't report one; the SDK signals that as a zero checksum on a
	// non-empty object.
	CRC32C *uint32
}

// ByteRange is a half-open range [Start, Limit) of object offsets.
type ByteRange struct {
	Start uint64
	Limit uint64
}

func (br ByteRange) String() string {
	return fmt.Sprintf("[%d, %d)", br.Start, br.Limit)
}

// Len returns the number of bytes in the range, zero when Limit <= Start.
func (br ByteRange) Len() uint64 {
	if br.Limit <= br.Start {
		return 0
	}
	return br.Limit - br.Start
}

// StatObjectRequest is a request to fetch the metadata of a named object.
type StatObjectRequest struct {
	Name string
}

// ReadObjectRequest is a request to read the contents of an object.
type ReadObjectRequest struct {
	// The name of the object to read.
	Name string

	// The generation of the object to read. Zero means the latest generation.
	Generation int64

	// If present, limit the contents returned to a range within the object.
	// A nil range means the full object.
	Range *ByteRange
}
