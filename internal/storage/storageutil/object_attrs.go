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

package storageutil

import (
	"cloud.google.com/go/storage"
	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
)

// ObjectAttrsToMinObject converts the SDK's attributes into the metadata the
// reader needs. A negative size, which the SDK never reports for a real
// object, is clamped to zero. The SDK reports a missing checksum as 0, so
// CRC32C is left nil for a non-empty object whose checksum is 0.
func ObjectAttrsToMinObject(attrs *storage.ObjectAttrs) *gcs.MinObject {
	if attrs == nil {
		return nil
	}

	var size uint64
	if attrs.Size > 0 {
		size = uint64(attrs.Size)
	}

	o := &gcs.MinObject{
		Name:        attrs.Name,
		Size:        size,
		Generation:  attrs.Generation,
		Updated:     attrs.Updated,
		ContentType: attrs.ContentType,
	}
	if attrs.CRC32C != 0 || size == 0 {
		// Making a local copy of crc to avoid keeping a reference to attrs instance.
		crc := attrs.CRC32C
		o.CRC32C = &crc
	}
	return o
}
