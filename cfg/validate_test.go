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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Format:   "json",
			Severity: InfoLogSeverity,
			LogRotate: LogRotateLoggingConfig{
				MaxFileSizeMb:   512,
				BackupFileCount: 10,
			},
		},
		Read: ReadConfig{
			BufferSize:           DefaultBufferSizeBytes,
			MaxParallelDownloads: 4,
		},
	}
}

func TestValidateConfigSuccessful(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "zero_buffer_size_uses_default", modify: func(c *Config) { c.Read.BufferSize = 0 }},
		{name: "max_buffer_size", modify: func(c *Config) { c.Read.BufferSize = MaxBufferSizeBytes }},
		{name: "http_custom_endpoint", modify: func(c *Config) { c.GcsConnection.CustomEndpoint = "http://localhost:4443" }},
		{name: "stdout_tracing", modify: func(c *Config) { c.Monitoring.ExperimentalTracingMode = TracingModeStdout }},
		{name: "backup_count_zero", modify: func(c *Config) { c.Logging.LogRotate.BackupFileCount = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.modify(c)

			assert.NoError(t, ValidateConfig(c))
		})
	}
}

func TestValidateConfigUnsuccessful(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		errContains string
	}{
		{name: "negative_buffer_size", modify: func(c *Config) { c.Read.BufferSize = -1 }, errContains: "read config"},
		{name: "huge_buffer_size", modify: func(c *Config) { c.Read.BufferSize = MaxBufferSizeBytes + 1 }, errContains: "read config"},
		{name: "zero_parallelism", modify: func(c *Config) { c.Read.MaxParallelDownloads = 0 }, errContains: "read config"},
		{name: "zero_max_log_file_size", modify: func(c *Config) { c.Logging.LogRotate.MaxFileSizeMb = 0 }, errContains: "log-rotate"},
		{name: "negative_backup_count", modify: func(c *Config) { c.Logging.LogRotate.BackupFileCount = -1 }, errContains: "log-rotate"},
		{name: "unknown_log_format", modify: func(c *Config) { c.Logging.Format = "xml" }, errContains: "logging config"},
		{name: "relative_custom_endpoint", modify: func(c *Config) { c.GcsConnection.CustomEndpoint = "localhost:4443" }, errContains: "custom-endpoint"},
		{name: "ftp_custom_endpoint", modify: func(c *Config) { c.GcsConnection.CustomEndpoint = "ftp://localhost" }, errContains: "custom-endpoint"},
		{name: "unknown_tracing_mode", modify: func(c *Config) { c.Monitoring.ExperimentalTracingMode = "jaeger" }, errContains: "monitoring config"},
		{name: "sampling_ratio_above_one", modify: func(c *Config) { c.Monitoring.ExperimentalTracingSamplingRatio = 1.5 }, errContains: "monitoring config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.modify(c)

			err := ValidateConfig(c)

			if assert.Error(t, err) {
				assert.True(t, strings.Contains(err.Error(), tc.errContains), err.Error())
			}
		})
	}
}
