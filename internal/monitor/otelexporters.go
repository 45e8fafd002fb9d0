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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	cloudmetric "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/common"
	"github.com/googlecloudplatform/gcsstream/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SetupOTelMetricExporters installs a global meter provider with the readers
// the config asks for. It returns nil when no exporter is configured.
func SetupOTelMetricExporters(ctx context.Context, c *cfg.Config, sessionID string) (shutdownFn common.ShutdownFn) {
	shutdownFns := make([]common.ShutdownFn, 0)
	options := make([]metric.Option, 0)

	opts, shutdownFn := setupPrometheus(c.Metrics.PrometheusPort)
	options = append(options, opts...)
	shutdownFns = append(shutdownFns, shutdownFn)

	opts, shutdownFn = setupCloudMonitoring(c.Metrics.CloudMetricsExportIntervalSecs)
	options = append(options, opts...)
	shutdownFns = append(shutdownFns, shutdownFn)

	if len(options) == 0 {
		return nil
	}

	res, err := getResource(ctx, sessionID)
	if err != nil {
		logger.Errorf("Error while fetching resource: %v", err)
	} else {
		options = append(options, metric.WithResource(res))
	}

	meterProvider := metric.NewMeterProvider(options...)
	shutdownFns = append(shutdownFns, meterProvider.Shutdown)

	otel.SetMeterProvider(meterProvider)

	return common.JoinShutdownFunc(shutdownFns...)
}

// permissionAwareExporter stops exporting after the first PermissionDenied
// so that a missing monitoring.timeSeries.create role costs one error line
// rather than one per interval.
type permissionAwareExporter struct {
	metric.Exporter
	disabled atomic.Bool
}

func (p *permissionAwareExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	if p.disabled.Load() {
		return nil
	}
	err := p.Exporter.Export(ctx, rm)
	if status.Code(err) == codes.PermissionDenied {
		logger.Errorf("Disabling Cloud Monitoring export: %v", err)
		p.disabled.Store(true)
	}
	return err
}

func setupCloudMonitoring(secs int64) ([]metric.Option, common.ShutdownFn) {
	if secs <= 0 {
		return nil, nil
	}
	options := []cloudmetric.Option{
		cloudmetric.WithMetricDescriptorTypeFormatter(metricFormatter),
		cloudmetric.WithFilteredResourceAttributes(func(kv attribute.KeyValue) bool {
			// Ensure that PID is available as a metric label on metrics explorer.
			return cloudmetric.DefaultResourceAttributesFilter(kv) ||
				kv.Key == semconv.ProcessPIDKey ||
				kv.Key == semconv.ServiceInstanceIDKey
		}),
	}
	exporter, err := cloudmetric.New(options...)
	if err != nil {
		logger.Errorf("Error while creating Google Cloud exporter:%v", err)
		return nil, nil
	}

	r := metric.NewPeriodicReader(&permissionAwareExporter{Exporter: exporter}, metric.WithInterval(time.Duration(secs)*time.Second))
	return []metric.Option{metric.WithReader(r)}, r.Shutdown
}

func metricFormatter(m metricdata.Metrics) string {
	return "custom.googleapis.com/gcsstream/" + strings.ReplaceAll(m.Name, ".", "/")
}

func setupPrometheus(port int64) ([]metric.Option, common.ShutdownFn) {
	if port <= 0 {
		return nil, nil
	}
	exporter, err := prometheus.New(prometheus.WithoutUnits(), prometheus.WithoutCounterSuffixes(), prometheus.WithoutScopeInfo(), prometheus.WithoutTargetInfo())
	if err != nil {
		logger.Errorf("Error while creating prometheus exporter:%v", err)
		return nil, nil
	}
	prometheusServer, err := serveMetrics(port)
	if err != nil {
		logger.Errorf("Failed to start Prometheus server: %v", err)
		return nil, nil
	}
	return []metric.Option{metric.WithReader(exporter)}, func(ctx context.Context) error {
		logger.Info("Shutting down Prometheus exporter.")
		if err := prometheusServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("error while shutting down Prometheus exporter: %w", err)
		}
		logger.Info("Prometheus exporter shutdown")
		return nil
	}
}

// serveMetrics binds the port synchronously so that an address in use is
// reported to the caller, then serves /metrics in the background.
func serveMetrics(port int64) (*http.Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	prometheusServer := &http.Server{
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		if err := prometheusServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Prometheus server stopped: %v", err)
		}
	}()
	logger.Infof("Serving metrics at localhost:%d/metrics", port)
	return prometheusServer, nil
}
