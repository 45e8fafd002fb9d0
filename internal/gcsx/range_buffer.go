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

// rangeBuffer holds the most recently fetched contiguous slice of an object.
// data[:len(data)] is valid; cap(data) is fixed after the first refill.
type rangeBuffer struct {
	data []byte

	// off is the index in data of the next byte to hand out.
	//
	// INVARIANT: 0 <= off <= len(data)
	off int

	// start is the object offset of data[0].
	start int64
}

func (b *rangeBuffer) exhausted() bool {
	return b.off >= len(b.data)
}

// read copies from the unread part of the buffer into p.
func (b *rangeBuffer) read(p []byte) int {
	n := copy(p, b.data[b.off:])
	b.off += n
	return n
}

// discard empties the buffer but keeps its backing array for the next
// refill.
func (b *rangeBuffer) discard() {
	b.data = b.data[:0]
	b.off = 0
}

// release drops the backing array.
func (b *rangeBuffer) release() {
	*b = rangeBuffer{}
}
