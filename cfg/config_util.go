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

package cfg

import (
	"fmt"
	"runtime"

	"gopkg.in/yaml.v3"
)

func DefaultMaxParallelDownloads() int {
	return max(4, runtime.NumCPU())
}

// BufferSizeBytes returns the configured range window, falling back to
// DefaultBufferSizeBytes when unset.
func (c *ReadConfig) BufferSizeBytes() int64 {
	if c.BufferSize <= 0 {
		return DefaultBufferSizeBytes
	}
	return int64(c.BufferSize)
}

// String renders the config as YAML for the startup log. Credentials are
// masked.
func (c Config) String() string {
	if c.GcsAuth.AccessToken != "" {
		c.GcsAuth.AccessToken = "<redacted>"
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return string(out)
}
