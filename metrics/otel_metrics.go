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

package metrics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/googlecloudplatform/gcsstream/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const logInterval = 5 * time.Minute

var (
	unrecognizedAttr atomic.Value

	gcsMethods      = []string{GcsMethodNewReader, GcsMethodStatObject}
	ioMethods       = []string{IoMethodClosed, IoMethodOpened}
	errorCategories = []string{ErrorCategoryCanceled, ErrorCategoryNotFound, ErrorCategoryOther, ErrorCategoryTransport}
)

type histogramRecord struct {
	ctx        context.Context
	instrument metric.Int64Histogram
	value      int64
	attributes metric.RecordOption
}

// attrCounter is a set of monotonically increasing counters, one per
// attribute set, observed by an asynchronous instrument. Keys are fixed at
// construction so lookups need no locking.
type attrCounter struct {
	counts map[string]*atomic.Int64
	opts   map[string]metric.ObserveOption
}

func newAttrCounter(keys []string, attrsFor func(key string) attribute.Set) *attrCounter {
	c := &attrCounter{
		counts: make(map[string]*atomic.Int64, len(keys)),
		opts:   make(map[string]metric.ObserveOption, len(keys)),
	}
	for _, k := range keys {
		c.counts[k] = new(atomic.Int64)
		c.opts[k] = metric.WithAttributeSet(attrsFor(k))
	}
	return c
}

func (c *attrCounter) add(key string, inc int64) bool {
	counter, ok := c.counts[key]
	if !ok {
		return false
	}
	counter.Add(inc)
	return true
}

func (c *attrCounter) observe(obsrv metric.Int64Observer) {
	for k, counter := range c.counts {
		conditionallyObserve(obsrv, counter, c.opts[k])
	}
}

func errorKey(gcsMethod, errorCategory string) string {
	return gcsMethod + "/" + errorCategory
}

type otelMetrics struct {
	ch chan histogramRecord
	wg *sync.WaitGroup

	gcsDownloadBytesCountAtomic *atomic.Int64
	gcsReadBytesCountAtomic     *atomic.Int64
	gcsReadCountAtomic          *atomic.Int64
	gcsReaderCount              *attrCounter
	gcsRequestCount             *attrCounter
	gcsRequestErrorCount        *attrCounter

	bufferedReadRefillLatency metric.Int64Histogram
	gcsRequestLatencies       metric.Int64Histogram
	gcsRequestLatenciesAttrs  map[string]metric.RecordOption
}

// NewOTelMetrics registers the instruments with the global meter provider.
// Histogram samples are handed to a pool of workers goroutines through a
// channel of bufferSize entries; counters are observed on collection.
func NewOTelMetrics(ctx context.Context, workers int, bufferSize int) (*otelMetrics, error) {
	ch := make(chan histogramRecord, bufferSize)
	var wg sync.WaitGroup
	startSampledLogging(ctx)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range ch {
				if record.attributes != nil {
					record.instrument.Record(record.ctx, record.value, record.attributes)
				} else {
					record.instrument.Record(record.ctx, record.value)
				}
			}
		}()
	}
	meter := otel.Meter("gcsstream")

	var gcsDownloadBytesCountAtomic, gcsReadBytesCountAtomic, gcsReadCountAtomic atomic.Int64
	gcsReaderCount := newAttrCounter(ioMethods, func(k string) attribute.Set {
		return attribute.NewSet(attribute.String("io_method", k))
	})
	gcsRequestCount := newAttrCounter(gcsMethods, func(k string) attribute.Set {
		return attribute.NewSet(attribute.String("gcs_method", k))
	})
	var errorKeys []string
	errorAttrs := make(map[string]attribute.Set)
	for _, m := range gcsMethods {
		for _, c := range errorCategories {
			k := errorKey(m, c)
			errorKeys = append(errorKeys, k)
			errorAttrs[k] = attribute.NewSet(attribute.String("gcs_method", m), attribute.String("error_category", c))
		}
	}
	gcsRequestErrorCount := newAttrCounter(errorKeys, func(k string) attribute.Set { return errorAttrs[k] })
	gcsRequestLatenciesAttrs := make(map[string]metric.RecordOption, len(gcsMethods))
	for _, m := range gcsMethods {
		gcsRequestLatenciesAttrs[m] = metric.WithAttributeSet(attribute.NewSet(attribute.String("gcs_method", m)))
	}

	bufferedReadRefillLatency, err0 := meter.Int64Histogram("buffered_read/refill_latency",
		metric.WithDescription("The cumulative distribution of the time taken to refill a reader's buffer with one range request."),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000, 20000, 50000))

	_, err1 := meter.Int64ObservableCounter("gcs/download_bytes_count",
		metric.WithDescription("The cumulative number of bytes downloaded from GCS into reader buffers."),
		metric.WithUnit("By"),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			conditionallyObserve(obsrv, &gcsDownloadBytesCountAtomic)
			return nil
		}))

	_, err2 := meter.Int64ObservableCounter("gcs/read_bytes_count",
		metric.WithDescription("The cumulative number of bytes handed to callers by readers."),
		metric.WithUnit("By"),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			conditionallyObserve(obsrv, &gcsReadBytesCountAtomic)
			return nil
		}))

	_, err3 := meter.Int64ObservableCounter("gcs/read_count",
		metric.WithDescription("The cumulative number of range requests issued by readers."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			conditionallyObserve(obsrv, &gcsReadCountAtomic)
			return nil
		}))

	_, err4 := meter.Int64ObservableCounter("gcs/reader_count",
		metric.WithDescription("The cumulative number of GCS object readers opened or closed."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			gcsReaderCount.observe(obsrv)
			return nil
		}))

	_, err5 := meter.Int64ObservableCounter("gcs/request_count",
		metric.WithDescription("The cumulative number of GCS requests processed along with the GCS method."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			gcsRequestCount.observe(obsrv)
			return nil
		}))

	_, err6 := meter.Int64ObservableCounter("gcs/request_error_count",
		metric.WithDescription("The cumulative number of failed GCS requests along with the GCS method and error category."),
		metric.WithUnit(""),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			gcsRequestErrorCount.observe(obsrv)
			return nil
		}))

	gcsRequestLatencies, err7 := meter.Int64Histogram("gcs/request_latencies",
		metric.WithDescription("The cumulative distribution of the GCS request latencies."),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50, 100, 150, 200, 300, 400, 500, 700, 1000, 2000, 5000, 10000, 20000, 50000))

	errs := []error{err0, err1, err2, err3, err4, err5, err6, err7}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &otelMetrics{
		ch:                          ch,
		wg:                          &wg,
		gcsDownloadBytesCountAtomic: &gcsDownloadBytesCountAtomic,
		gcsReadBytesCountAtomic:     &gcsReadBytesCountAtomic,
		gcsReadCountAtomic:          &gcsReadCountAtomic,
		gcsReaderCount:              gcsReaderCount,
		gcsRequestCount:             gcsRequestCount,
		gcsRequestErrorCount:        gcsRequestErrorCount,
		bufferedReadRefillLatency:   bufferedReadRefillLatency,
		gcsRequestLatencies:         gcsRequestLatencies,
		gcsRequestLatenciesAttrs:    gcsRequestLatenciesAttrs,
	}, nil
}

func (o *otelMetrics) BufferedReadRefillLatency(
	ctx context.Context, latency time.Duration) {
	record := histogramRecord{ctx: ctx, instrument: o.bufferedReadRefillLatency, value: latency.Milliseconds()}
	o.enqueue(record)
}

func (o *otelMetrics) GcsDownloadBytesCount(
	inc int64) {
	if inc < 0 {
		logger.Errorf("Counter metric gcs/download_bytes_count received a negative increment: %d", inc)
		return
	}
	o.gcsDownloadBytesCountAtomic.Add(inc)
}

func (o *otelMetrics) GcsReadBytesCount(
	inc int64) {
	if inc < 0 {
		logger.Errorf("Counter metric gcs/read_bytes_count received a negative increment: %d", inc)
		return
	}
	o.gcsReadBytesCountAtomic.Add(inc)
}

func (o *otelMetrics) GcsReadCount(
	inc int64) {
	if inc < 0 {
		logger.Errorf("Counter metric gcs/read_count received a negative increment: %d", inc)
		return
	}
	o.gcsReadCountAtomic.Add(inc)
}

func (o *otelMetrics) GcsReaderCount(
	inc int64, ioMethod string) {
	if inc < 0 {
		logger.Errorf("Counter metric gcs/reader_count received a negative increment: %d", inc)
		return
	}
	if !o.gcsReaderCount.add(ioMethod, inc) {
		updateUnrecognizedAttribute(ioMethod)
	}
}

func (o *otelMetrics) GcsRequestCount(
	inc int64, gcsMethod string) {
	if inc < 0 {
		logger.Errorf("Counter metric gcs/request_count received a negative increment: %d", inc)
		return
	}
	if !o.gcsRequestCount.add(gcsMethod, inc) {
		updateUnrecognizedAttribute(gcsMethod)
	}
}

func (o *otelMetrics) GcsRequestErrorCount(
	inc int64, gcsMethod string, errorCategory string) {
	if inc < 0 {
		logger.Errorf("Counter metric gcs/request_error_count received a negative increment: %d", inc)
		return
	}
	if !o.gcsRequestErrorCount.add(errorKey(gcsMethod, errorCategory), inc) {
		updateUnrecognizedAttribute(errorKey(gcsMethod, errorCategory))
	}
}

func (o *otelMetrics) GcsRequestLatencies(
	ctx context.Context, latency time.Duration, gcsMethod string) {
	attrs, ok := o.gcsRequestLatenciesAttrs[gcsMethod]
	if !ok {
		updateUnrecognizedAttribute(gcsMethod)
		return
	}
	o.enqueue(histogramRecord{ctx: ctx, instrument: o.gcsRequestLatencies, value: latency.Milliseconds(), attributes: attrs})
}

func (o *otelMetrics) enqueue(record histogramRecord) {
	select {
	case o.ch <- record: // Do nothing
	default: // Unblock writes to channel if it's full.
	}
}

// Close stops the histogram workers after they drain pending records.
func (o *otelMetrics) Close() {
	close(o.ch)
	o.wg.Wait()
}

func conditionallyObserve(obsrv metric.Int64Observer, counter *atomic.Int64, obsrvOptions ...metric.ObserveOption) {
	if val := counter.Load(); val > 0 {
		obsrv.Observe(val, obsrvOptions...)
	}
}

func updateUnrecognizedAttribute(newValue string) {
	unrecognizedAttr.CompareAndSwap("", newValue)
}

// startSampledLogging starts a goroutine that logs unrecognized attributes periodically.
func startSampledLogging(ctx context.Context) {
	// Init the atomic.Value
	unrecognizedAttr.Store("")

	go func() {
		ticker := time.NewTicker(logInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logUnrecognizedAttribute()
			}
		}
	}()
}

// logUnrecognizedAttribute retrieves and logs any unrecognized attributes.
func logUnrecognizedAttribute() {
	// Atomically load and reset the attribute name, then generate a log
	// if an unrecognized attribute was encountered.
	if currentAttr := unrecognizedAttr.Swap("").(string); currentAttr != "" {
		logger.Tracef("Attribute %s is not declared", currentAttr)
	}
}
