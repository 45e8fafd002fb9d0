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

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	textTraceString   = "^time=\"[a-zA-Z0-9/:. ]{26}\" severity=TRACE message=\"TestLogs: www.traceExample.com\""
	textDebugString   = "^time=\"[a-zA-Z0-9/:. ]{26}\" severity=DEBUG message=\"TestLogs: www.debugExample.com\""
	textInfoString    = "^time=\"[a-zA-Z0-9/:. ]{26}\" severity=INFO message=\"TestLogs: www.infoExample.com\""
	textWarningString = "^time=\"[a-zA-Z0-9/:. ]{26}\" severity=WARNING message=\"TestLogs: www.warningExample.com\""
	textErrorString   = "^time=\"[a-zA-Z0-9/:. ]{26}\" severity=ERROR message=\"TestLogs: www.errorExample.com\""

	jsonTraceString   = "^{\"timestamp\":{\"seconds\":\\d{10},\"nanos\":\\d{0,9}},\"severity\":\"TRACE\",\"message\":\"TestLogs: www.traceExample.com\"}"
	jsonDebugString   = "^{\"timestamp\":{\"seconds\":\\d{10},\"nanos\":\\d{0,9}},\"severity\":\"DEBUG\",\"message\":\"TestLogs: www.debugExample.com\"}"
	jsonInfoString    = "^{\"timestamp\":{\"seconds\":\\d{10},\"nanos\":\\d{0,9}},\"severity\":\"INFO\",\"message\":\"TestLogs: www.infoExample.com\"}"
	jsonWarningString = "^{\"timestamp\":{\"seconds\":\\d{10},\"nanos\":\\d{0,9}},\"severity\":\"WARNING\",\"message\":\"TestLogs: www.warningExample.com\"}"
	jsonErrorString   = "^{\"timestamp\":{\"seconds\":\\d{10},\"nanos\":\\d{0,9}},\"severity\":\"ERROR\",\"message\":\"TestLogs: www.errorExample.com\"}"
)

type LoggerTest struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTest))
}

func (t *LoggerTest) TearDownTest() {
	defaultLoggerFactory.format = "text"
}

// //////////////////////////////////////////////////////////////////////
// Helpers
// //////////////////////////////////////////////////////////////////////

func redirectLogsToGivenBuffer(buf *bytes.Buffer, level string) {
	var programLevel = new(slog.LevelVar)
	defaultLogger = slog.New(
		defaultLoggerFactory.createJsonOrTextHandler(buf, programLevel, "TestLogs: "),
	)
	setLoggingLevel(level, programLevel)
}

// fetchLogOutput runs every logging function against a buffer-backed logger
// at the given severity and returns what each call wrote.
func fetchLogOutput(level string) []string {
	var buf bytes.Buffer
	redirectLogsToGivenBuffer(&buf, level)

	functions := []func(){
		func() { Tracef("www.traceExample.com") },
		func() { Debugf("www.debugExample.com") },
		func() { Infof("www.infoExample.com") },
		func() { Warnf("www.warningExample.com") },
		func() { Errorf("www.errorExample.com") },
	}
	var output []string
	for _, f := range functions {
		f()
		output = append(output, buf.String())
		buf.Reset()
	}
	return output
}

func validateOutput(t *testing.T, expected []string, output []string) {
	require.Len(t, output, len(expected))
	for i := range output {
		if expected[i] == "" {
			assert.Equal(t, expected[i], output[i])
		} else {
			assert.Regexp(t, regexp.MustCompile(expected[i]), output[i])
		}
	}
}

// //////////////////////////////////////////////////////////////////////
// Tests
// //////////////////////////////////////////////////////////////////////

func (t *LoggerTest) TestLogsAtEachSeverity() {
	testCases := []struct {
		format   string
		severity string
		expected []string
	}{
		{"text", cfg.OFF, []string{"", "", "", "", ""}},
		{"text", cfg.ERROR, []string{"", "", "", "", textErrorString}},
		{"text", cfg.WARNING, []string{"", "", "", textWarningString, textErrorString}},
		{"text", cfg.INFO, []string{"", "", textInfoString, textWarningString, textErrorString}},
		{"text", cfg.DEBUG, []string{"", textDebugString, textInfoString, textWarningString, textErrorString}},
		{"text", cfg.TRACE, []string{textTraceString, textDebugString, textInfoString, textWarningString, textErrorString}},
		{"json", cfg.OFF, []string{"", "", "", "", ""}},
		{"json", cfg.ERROR, []string{"", "", "", "", jsonErrorString}},
		{"json", cfg.WARNING, []string{"", "", "", jsonWarningString, jsonErrorString}},
		{"json", cfg.INFO, []string{"", "", jsonInfoString, jsonWarningString, jsonErrorString}},
		{"json", cfg.DEBUG, []string{"", jsonDebugString, jsonInfoString, jsonWarningString, jsonErrorString}},
		{"json", cfg.TRACE, []string{jsonTraceString, jsonDebugString, jsonInfoString, jsonWarningString, jsonErrorString}},
	}

	for _, tc := range testCases {
		t.Run(tc.format+"_"+tc.severity, func() {
			defaultLoggerFactory.format = tc.format

			validateOutput(t.T(), tc.expected, fetchLogOutput(tc.severity))
		})
	}
}

func (t *LoggerTest) TestSetLoggingLevel() {
	testCases := []struct {
		inputLevel           string
		expectedProgramLevel slog.Level
	}{
		{cfg.TRACE, LevelTrace},
		{cfg.DEBUG, LevelDebug},
		{cfg.WARNING, LevelWarn},
		{cfg.ERROR, LevelError},
		{cfg.OFF, LevelOff},
	}

	for _, test := range testCases {
		programLevel := new(slog.LevelVar)
		setLoggingLevel(test.inputLevel, programLevel)
		assert.Equal(t.T(), test.expectedProgramLevel, programLevel.Level())
	}
}

func (t *LoggerTest) TestInitLogFile() {
	filePath := filepath.Join(t.T().TempDir(), "log.txt")
	newLogConfig := cfg.LoggingConfig{
		FilePath: cfg.ResolvedPath(filePath),
		Severity: cfg.DebugLogSeverity,
		Format:   "text",
		LogRotate: cfg.LogRotateLoggingConfig{
			MaxFileSizeMb:   2,
			BackupFileCount: 2,
			Compress:        true,
		},
	}

	err := InitLogFile(newLogConfig)
	defer Close()

	require.NoError(t.T(), err)
	assert.NotNil(t.T(), defaultLoggerFactory.file)
	assert.Equal(t.T(), "text", defaultLoggerFactory.format)
	assert.Equal(t.T(), cfg.DEBUG, defaultLoggerFactory.level)
	assert.Equal(t.T(), int64(2), defaultLoggerFactory.logRotateConfig.MaxFileSizeMb)
	assert.Equal(t.T(), int64(2), defaultLoggerFactory.logRotateConfig.BackupFileCount)
	assert.True(t.T(), defaultLoggerFactory.logRotateConfig.Compress)
	Infof("TestInitLogFile: www.infoExample.com")
	content, err := os.ReadFile(filePath)
	require.NoError(t.T(), err)
	assert.Contains(t.T(), string(content), "message=\"TestInitLogFile: www.infoExample.com\"")
}

func (t *LoggerTest) TestInitLogFileUnwritablePath() {
	newLogConfig := cfg.LoggingConfig{
		FilePath: cfg.ResolvedPath(filepath.Join(t.T().TempDir(), "missing", "dir", "log.txt")),
		Severity: cfg.InfoLogSeverity,
		Format:   "json",
	}

	err := InitLogFile(newLogConfig)

	assert.ErrorContains(t.T(), err, "error while opening log file")
}

func (t *LoggerTest) TestSetLogFormatToText() {
	defaultLoggerFactory = &loggerFactory{file: nil, level: cfg.INFO}

	SetLogFormat("text")

	assert.Equal(t.T(), "text", defaultLoggerFactory.format)
	assert.NotNil(t.T(), defaultLogger)
}
