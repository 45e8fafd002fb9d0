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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CRC32C of "123456789" from RFC 3720, appendix B.4.
const checkValue = 0xe3069283

func TestCRC32C(t *testing.T) {
	assert.Equal(t, uint32(checkValue), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32C(nil))
}

func TestCalculateCRC32CMatchesHash(t *testing.T) {
	h := NewCRC32C()
	_, err := h.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = h.Write([]byte("56789"))
	require.NoError(t, err)

	got, err := CalculateCRC32C(strings.NewReader("123456789"))

	require.NoError(t, err)
	assert.Equal(t, h.Sum32(), got)
	assert.Equal(t, uint32(checkValue), got)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestCalculateCRC32CReadError(t *testing.T) {
	_, err := CalculateCRC32C(errReader{})

	assert.ErrorContains(t, err, "disk on fire")
}

func TestCalculateFileCRC32C(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("123456789"), 0644))

	got, err := CalculateFileCRC32C(path)

	require.NoError(t, err)
	assert.Equal(t, uint32(checkValue), got)
	_, err = CalculateFileCRC32C(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "error opening file")
}
