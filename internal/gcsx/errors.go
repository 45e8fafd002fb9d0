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
	"errors"
	"fmt"
)

// ErrReaderClosed is returned by Read after Close.
var ErrReaderClosed = errors.New("gcsx: read from closed BufferedRangeReader")

// UnsupportedOperationError reports a call to an operation that a
// BufferedRangeReader never provides. It matches errors.ErrUnsupported.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("gcsx: %s is not supported by BufferedRangeReader", e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error {
	return errors.ErrUnsupported
}
