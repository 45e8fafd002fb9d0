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

package common

import (
	"fmt"
	"runtime"
)

// Set with `-ldflags -X github.com/googlecloudplatform/gcsstream/common.gcsstreamVersion=1.2.3`
// at release time. If not defined, "unknown" is reported.
var gcsstreamVersion string

// GetVersion returns the release version together with the Go runtime version.
func GetVersion() string {
	v := gcsstreamVersion
	if v == "" {
		v = "unknown"
	}

	return fmt.Sprintf("%s (Go version %s)", v, runtime.Version())
}

// UserAgent is sent with every request made to GCS.
func UserAgent(appName string) string {
	v := gcsstreamVersion
	if v == "" {
		v = "unknown"
	}
	if appName == "" {
		return fmt.Sprintf("gcsstream/%s", v)
	}
	return fmt.Sprintf("gcsstream/%s %s", v, appName)
}
