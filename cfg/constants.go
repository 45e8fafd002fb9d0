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

import "github.com/googlecloudplatform/gcsstream/internal/util"

const (
	// Logging-level constants

	TRACE   string = "TRACE"
	DEBUG   string = "DEBUG"
	INFO    string = "INFO"
	WARNING string = "WARNING"
	ERROR   string = "ERROR"
	OFF     string = "OFF"
)

const (
	// DefaultBufferSizeBytes is the size of the window fetched by one range
	// request when read.buffer-size is not set.
	DefaultBufferSizeBytes = 10 * util.MiB

	// MaxBufferSizeBytes is the largest window a single reader may buffer.
	MaxBufferSizeBytes = 1024 * util.MiB
)

const (
	// TracingModeStdout prints spans to stdout.
	TracingModeStdout = "stdout"
	// TracingModeGCPTrace exports spans to Cloud Trace.
	TracingModeGCPTrace = "gcptrace"
)
