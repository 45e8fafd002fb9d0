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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/googlecloudplatform/gcsstream/cfg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity levels understood by the handlers. TRACE sits below slog's DEBUG
// and OFF above ERROR so that nothing passes it.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelOff   = slog.Level(12)
)

var (
	defaultLoggerFactory *loggerFactory
	defaultLogger        *slog.Logger
	programLevel         = new(slog.LevelVar)
)

// InitLogFile points the default logger at the configured file, rotated by
// lumberjack, or at stderr when no file is configured.
func InitLogFile(newLogConfig cfg.LoggingConfig) error {
	var f io.WriteCloser
	if newLogConfig.FilePath != "" {
		// Fail early on an unwritable path; lumberjack would otherwise only
		// report it on the first write.
		lf, err := os.OpenFile(string(newLogConfig.FilePath), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("error while opening log file: %w", err)
		}
		lf.Close()

		f = &lumberjack.Logger{
			Filename:   string(newLogConfig.FilePath),
			MaxSize:    int(newLogConfig.LogRotate.MaxFileSizeMb),
			MaxBackups: int(newLogConfig.LogRotate.BackupFileCount),
			Compress:   newLogConfig.LogRotate.Compress,
		}
	}

	defaultLoggerFactory = &loggerFactory{
		file:            f,
		format:          newLogConfig.Format,
		level:           string(newLogConfig.Severity),
		logRotateConfig: newLogConfig.LogRotate,
	}
	defaultLogger = slog.New(defaultLoggerFactory.handler(programLevel, ""))
	setLoggingLevel(defaultLoggerFactory.level, programLevel)

	return nil
}

// init initializes the logger factory to use stderr.
func init() {
	defaultLoggerFactory = &loggerFactory{
		file:   nil,
		format: "text",
		level:  cfg.INFO,
	}
	defaultLogger = slog.New(defaultLoggerFactory.handler(programLevel, ""))
	setLoggingLevel(defaultLoggerFactory.level, programLevel)
}

// SetLogFormat updates the log format of the default logger.
func SetLogFormat(format string) {
	defaultLoggerFactory.format = format
	defaultLogger = slog.New(defaultLoggerFactory.handler(programLevel, ""))
}

// Close closes the log file when necessary.
func Close() {
	if f := defaultLoggerFactory.file; f != nil {
		f.Close()
		defaultLoggerFactory.file = nil
	}
}

// Tracef prints the message with TRACE severity in the specified format.
func Tracef(format string, v ...interface{}) {
	defaultLogger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, v...))
}

// Debugf prints the message with DEBUG severity in the specified format.
func Debugf(format string, v ...interface{}) {
	defaultLogger.Debug(fmt.Sprintf(format, v...))
}

// Infof prints the message with INFO severity in the specified format.
func Infof(format string, v ...interface{}) {
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

// Info prints the message with info severity.
func Info(message string, args ...any) {
	defaultLogger.Info(message, args...)
}

// Warnf prints the message with WARNING severity in the specified format.
func Warnf(format string, v ...interface{}) {
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}

// Errorf prints the message with ERROR severity in the specified format.
func Errorf(format string, v ...interface{}) {
	defaultLogger.Error(fmt.Sprintf(format, v...))
}

// Fatal prints an error log and exits with non-zero exit code.
func Fatal(format string, v ...interface{}) {
	Errorf(format, v...)
	Close()
	os.Exit(1)
}

type loggerFactory struct {
	// If nil, log to stderr. Otherwise, log to this file.
	file            io.WriteCloser
	format          string
	level           string
	logRotateConfig cfg.LogRotateLoggingConfig
}

func (f *loggerFactory) writer() io.Writer {
	if f.file != nil {
		return f.file
	}
	return os.Stderr
}

func (f *loggerFactory) handler(levelVar *slog.LevelVar, prefix string) slog.Handler {
	return f.createJsonOrTextHandler(f.writer(), levelVar, prefix)
}

func (f *loggerFactory) createJsonOrTextHandler(writer io.Writer, levelVar *slog.LevelVar, prefix string) slog.Handler {
	if f.format == "text" {
		return slog.NewTextHandler(writer, getHandlerOptions(levelVar, prefix, f.format))
	}
	return slog.NewJSONHandler(writer, getHandlerOptions(levelVar, prefix, f.format))
}
