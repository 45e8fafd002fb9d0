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
	"net/url"
	"slices"
)

func isValidLogRotateConfig(config *LogRotateLoggingConfig) error {
	if config.MaxFileSizeMb <= 0 {
		return fmt.Errorf("max-file-size-mb should be atleast 1")
	}
	if config.BackupFileCount < 0 {
		return fmt.Errorf("backup-file-count should be 0 (to retain all backup files) or a positive value")
	}
	return nil
}

func isValidLogFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported log format %q, expected one of [text, json]", format)
	}
	return nil
}

func isValidCustomEndpoint(endpoint string) error {
	if endpoint == "" {
		return nil
	}
	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

func isValidReadConfig(config *ReadConfig) error {
	if config.BufferSize < 0 {
		return fmt.Errorf("buffer-size can't be negative")
	}
	if config.BufferSize > MaxBufferSizeBytes {
		return fmt.Errorf("buffer-size can't exceed %d bytes", MaxBufferSizeBytes)
	}
	if config.MaxParallelDownloads <= 0 {
		return fmt.Errorf("max-parallel-downloads should be atleast 1")
	}
	return nil
}

func isValidTracingConfig(config *MonitoringConfig) error {
	modes := []string{"", TracingModeStdout, TracingModeGCPTrace}
	if !slices.Contains(modes, config.ExperimentalTracingMode) {
		return fmt.Errorf("unsupported tracing mode %q", config.ExperimentalTracingMode)
	}
	if config.ExperimentalTracingSamplingRatio < 0 || config.ExperimentalTracingSamplingRatio > 1 {
		return fmt.Errorf("experimental-tracing-sampling-ratio should be in [0, 1]")
	}
	return nil
}

// ValidateConfig returns a non-nil error if the config is invalid.
func ValidateConfig(config *Config) error {
	var err error

	if err = isValidLogRotateConfig(&config.Logging.LogRotate); err != nil {
		return fmt.Errorf("error parsing log-rotate config: %w", err)
	}

	if err = isValidLogFormat(config.Logging.Format); err != nil {
		return fmt.Errorf("error parsing logging config: %w", err)
	}

	if err = isValidCustomEndpoint(config.GcsConnection.CustomEndpoint); err != nil {
		return fmt.Errorf("error parsing custom-endpoint config: %w", err)
	}

	if err = isValidReadConfig(&config.Read); err != nil {
		return fmt.Errorf("error parsing read config: %w", err)
	}

	if err = isValidTracingConfig(&config.Monitoring); err != nil {
		return fmt.Errorf("error parsing monitoring config: %w", err)
	}

	return nil
}
