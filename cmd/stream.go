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

package cmd

import (
	"context"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/common"
	"github.com/googlecloudplatform/gcsstream/internal/gcsx"
	"github.com/googlecloudplatform/gcsstream/internal/logger"
	"github.com/googlecloudplatform/gcsstream/internal/monitor"
	"github.com/googlecloudplatform/gcsstream/internal/ratelimit"
	"github.com/googlecloudplatform/gcsstream/internal/storage"
	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
	"github.com/googlecloudplatform/gcsstream/internal/storage/storageutil"
	"github.com/googlecloudplatform/gcsstream/internal/util"
	"github.com/googlecloudplatform/gcsstream/metrics"
	"github.com/googlecloudplatform/gcsstream/tracing"
	"golang.org/x/sync/errgroup"
)

const (
	// Window over which limit-ops-per-sec and limit-bytes-per-sec are
	// enforced.
	throttleWindow = 30 * time.Second

	metricsWorkers    = 3
	metricsBufferSize = 256
)

// streamer copies objects from one bucket through BufferedRangeReaders.
type streamer struct {
	bucket       gcs.Bucket
	config       *cfg.Config
	metricHandle metrics.MetricHandle
	traceHandle  tracing.TraceHandle

	// stdout receives the objects when no output directory is configured.
	stdout io.Writer
}

// streamObjects is the production stream function of the root command.
func streamObjects(ctx context.Context, c *cfg.Config, bucketName string, objectNames []string) (err error) {
	logger.SetLogFormat(c.Logging.Format)
	if err = logger.InitLogFile(c.Logging); err != nil {
		return fmt.Errorf("init log file: %w", err)
	}
	defer logger.Close()

	runID := uuid.NewString()
	logger.Infof("Start gcsstream/%s for app %q, run %s", common.GetVersion(), c.AppName, runID)
	logger.Info("GCSStream config", "config", c)

	metricHandle := metrics.NewNoopMetrics()
	shutdownFn := monitor.SetupOTelMetricExporters(ctx, c, runID)
	if shutdownFn != nil {
		otelHandle, err := metrics.NewOTelMetrics(ctx, metricsWorkers, metricsBufferSize)
		if err != nil {
			logger.Errorf("Failed to create OTel metric handle, metrics are disabled: %v", err)
		} else {
			defer otelHandle.Close()
			metricHandle = otelHandle
		}
	}
	traceHandle := tracing.NewNoopTracer()
	if tracingShutdownFn := monitor.SetupTracing(ctx, c, runID); tracingShutdownFn != nil {
		traceHandle = tracing.NewOTelTracer()
		shutdownFn = common.JoinShutdownFunc(shutdownFn, tracingShutdownFn)
	}
	if shutdownFn != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdownFn(shutdownCtx); err != nil {
				logger.Warnf("Telemetry shutdown: %v", err)
			}
		}()
	}

	logger.Info("Creating Storage handle...")
	clientConfig := storageutil.NewStorageClientConfig(c, common.UserAgent(c.AppName))
	logger.Infof("UserAgent = %s", clientConfig.UserAgent)
	storageHandle, err := storage.NewStorageHandle(ctx, clientConfig)
	if err != nil {
		return fmt.Errorf("failed to create storage handle: %w", err)
	}
	defer func() {
		if err := storageHandle.Close(); err != nil {
			logger.Warnf("Closing storage handle: %v", err)
		}
	}()

	bucket, err := newBucket(storageHandle, c, bucketName, metricHandle)
	if err != nil {
		return err
	}

	s := &streamer{
		bucket:       bucket,
		config:       c,
		metricHandle: metricHandle,
		traceHandle:  traceHandle,
		stdout:       os.Stdout,
	}
	return s.run(ctx, objectNames)
}

// newBucket returns the bucket handle wrapped in the layers the config asks
// for. Requests pass through throttling first, then monitoring and debug
// logging.
func newBucket(sh storage.StorageHandle, c *cfg.Config, bucketName string, metricHandle metrics.MetricHandle) (gcs.Bucket, error) {
	b := sh.BucketHandle(bucketName, c.GcsConnection.BillingProject)

	if c.Logging.Severity == cfg.TraceLogSeverity {
		b = storage.NewDebugBucket(b)
	}
	b = monitor.NewMonitoringBucket(b, metricHandle)

	opThrottle, err := ratelimit.NewThrottleFromLimit(c.GcsConnection.LimitOpsPerSec, throttleWindow)
	if err != nil {
		return nil, fmt.Errorf("limit-ops-per-sec: %w", err)
	}
	egressThrottle, err := ratelimit.NewThrottleFromLimit(c.GcsConnection.LimitBytesPerSec, throttleWindow)
	if err != nil {
		return nil, fmt.Errorf("limit-bytes-per-sec: %w", err)
	}
	if opThrottle != nil || egressThrottle != nil {
		b = ratelimit.NewThrottledBucket(opThrottle, egressThrottle, b)
	}

	return b, nil
}

// run streams every object, to stdout in argument order or into the output
// directory with up to max-parallel-downloads sessions at once.
func (s *streamer) run(ctx context.Context, objectNames []string) error {
	outputDir := string(s.config.Output.Dir)
	if outputDir == "" {
		for _, name := range objectNames {
			if _, err := s.streamObject(ctx, name, s.stdout); err != nil {
				return err
			}
		}
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(int(s.config.Read.MaxParallelDownloads))
	for _, name := range objectNames {
		group.Go(func() error {
			return s.streamObjectToDir(groupCtx, name, outputDir)
		})
	}
	return group.Wait()
}

func (s *streamer) streamObjectToDir(ctx context.Context, objectName string, outputDir string) (err error) {
	if !filepath.IsLocal(objectName) {
		return fmt.Errorf("object name %q does not map to a path inside %s", objectName, outputDir)
	}
	path := filepath.Join(outputDir, filepath.FromSlash(objectName))
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %q: %w", objectName, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	_, err = s.streamObject(ctx, objectName, f)
	return err
}

// streamObject copies one object into w and returns the number of bytes
// written.
func (s *streamer) streamObject(ctx context.Context, objectName string, w io.Writer) (n int64, err error) {
	sessionID := uuid.NewString()
	ctx, span := s.traceHandle.StartSpan(ctx, tracing.StreamObject)
	defer func() {
		s.traceHandle.RecordError(span, err)
		s.traceHandle.EndSpan(span)
	}()

	start := time.Now()
	r, err := gcsx.NewBufferedRangeReader(ctx, s.bucket, objectName, gcsx.ReaderConfig{
		BufferSize:   s.config.Read.BufferSizeBytes(),
		MetricHandle: s.metricHandle,
		TraceHandle:  s.traceHandle,
	})
	if err != nil {
		return 0, fmt.Errorf("session %s: %w", sessionID, err)
	}
	defer r.Close()

	var h hash.Hash32
	if s.config.Output.Verify {
		h = util.NewCRC32C()
		w = io.MultiWriter(w, h)
	}

	n, err = io.Copy(w, r)
	if err != nil {
		return n, fmt.Errorf("session %s: copying %q after %d bytes: %w", sessionID, objectName, n, err)
	}
	logger.Infof("Session %s streamed gs://%s/%s (%d bytes) in %v", sessionID, s.bucket.Name(), objectName, n, time.Since(start))

	if h != nil {
		if err = verifyChecksum(r.Object(), h.Sum32()); err != nil {
			return n, fmt.Errorf("session %s: %w", sessionID, err)
		}
		logger.Infof("Session %s: CRC32C of %q is %08x", sessionID, objectName, h.Sum32())
	}
	return n, nil
}

func verifyChecksum(o *gcs.MinObject, got uint32) error {
	if o.CRC32C == nil {
		logger.Warnf("No CRC32C in the metadata of %q, skipping verification", o.Name)
		return nil
	}
	if *o.CRC32C != got {
		return fmt.Errorf("CRC32C mismatch for %q: object metadata has %08x, streamed bytes have %08x", o.Name, *o.CRC32C, got)
	}
	return nil
}
