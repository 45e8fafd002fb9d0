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

package util

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// NewCRC32C returns a hash computing the CRC32C (Castagnoli) checksum that
// GCS reports in object metadata.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// CRC32C returns the CRC32C checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// CalculateCRC32C returns the CRC32C checksum of everything read from src.
func CalculateCRC32C(src io.Reader) (uint32, error) {
	hasher := NewCRC32C()
	if _, err := io.Copy(hasher, src); err != nil {
		return 0, fmt.Errorf("error calculating CRC32C: %w", err)
	}
	return hasher.Sum32(), nil
}

// CalculateFileCRC32C returns the CRC32C checksum of a local file.
func CalculateFileCRC32C(filePath string) (uint32, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	return CalculateCRC32C(file)
}
