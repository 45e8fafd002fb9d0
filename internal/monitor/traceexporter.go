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

	cloudtrace "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/common"
	"github.com/googlecloudplatform/gcsstream/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func initPropagators() {
	props := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(props)
}

// SetupTracing bootstraps the OpenTelemetry tracing pipeline. It returns nil
// when tracing is off or could not be set up.
func SetupTracing(ctx context.Context, c *cfg.Config, sessionID string) common.ShutdownFn {
	tp, err := newTraceProvider(ctx, c, sessionID)
	if err != nil {
		logger.Errorf("error occurred while setting up tracing: %v", err)
		return nil
	}
	if tp == nil {
		return nil
	}

	otel.SetTracerProvider(tp)
	initPropagators()
	return tp.Shutdown
}

func newTraceProvider(ctx context.Context, c *cfg.Config, sessionID string) (*sdktrace.TracerProvider, error) {
	switch c.Monitoring.ExperimentalTracingMode {
	case cfg.TracingModeStdout:
		return newStdoutTraceProvider()
	case cfg.TracingModeGCPTrace:
		return newGCPCloudTraceProvider(ctx, c, sessionID)
	default:
		return nil, nil
	}
}

func newStdoutTraceProvider() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}

func newGCPCloudTraceProvider(ctx context.Context, c *cfg.Config, sessionID string) (*sdktrace.TracerProvider, error) {
	var traceOptions []cloudtrace.Option

	if c.Monitoring.ExperimentalTracingProjectId != "" {
		traceOptions = append(traceOptions, cloudtrace.WithProjectID(c.Monitoring.ExperimentalTracingProjectId))
	}

	exporter, err := cloudtrace.New(traceOptions...)
	if err != nil {
		return nil, err
	}
	res, err := getResource(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(c.Monitoring.ExperimentalTracingSamplingRatio))), nil
}
