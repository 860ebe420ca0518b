// SPDX-License-Identifier: EPL-2.0

// Package observe holds the OpenTelemetry instruments used by the encode and
// decode pipelines.
//
// Instruments are created from a [metric.MeterProvider]. Without an SDK
// installed the global provider is a no-op, so recording costs nothing in
// library use. Tests should build their own [Metrics] with [NewMetrics] and an
// sdkmetric.ManualReader.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ik5/ecdc"

// Metrics holds the instruments. Safe for concurrent use.
type Metrics struct {
	// EncodeDuration covers a whole encode: load, resample, model, write.
	EncodeDuration metric.Float64Histogram
	// DecodeDuration covers a whole decode: read, model, quantize, write.
	DecodeDuration metric.Float64Histogram
	// ModelDuration covers model calls only. Attribute "op" is encode or decode.
	ModelDuration metric.Float64Histogram

	// ContainerBytes counts container bytes written ("op"="encode") or read
	// ("op"="decode").
	ContainerBytes metric.Int64Counter
	// Tokens counts tokens stored after bandwidth truncation.
	Tokens metric.Int64Counter

	// Errors counts failed operations. Attributes "op" and "kind".
	Errors metric.Int64Counter
}

// Buckets in seconds. Model calls on long inputs can take tens of seconds.
var latencyBuckets = []float64{
	0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.EncodeDuration, err = m.Float64Histogram("ecdc.encode.duration",
		metric.WithDescription("Latency of a complete encode."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DecodeDuration, err = m.Float64Histogram("ecdc.decode.duration",
		metric.WithDescription("Latency of a complete decode."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ModelDuration, err = m.Float64Histogram("ecdc.model.duration",
		metric.WithDescription("Latency of neural codec calls by op."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.ContainerBytes, err = m.Int64Counter("ecdc.container.bytes",
		metric.WithDescription("Container bytes written or read by op."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.Tokens, err = m.Int64Counter("ecdc.tokens",
		metric.WithDescription("Tokens stored after bandwidth truncation."),
	); err != nil {
		return nil, err
	}
	if met.Errors, err = m.Int64Counter("ecdc.pipeline.errors",
		metric.WithDescription("Failed pipeline operations by op and error kind."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a shared instance built from [otel.GetMeterProvider]
// on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func opAttr(op string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("op", op))
}

// RecordModel records the latency of one model call.
func (m *Metrics) RecordModel(ctx context.Context, op string, d time.Duration) {
	m.ModelDuration.Record(ctx, d.Seconds(), opAttr(op))
}

// RecordContainer counts container bytes for op.
func (m *Metrics) RecordContainer(ctx context.Context, op string, n int) {
	m.ContainerBytes.Add(ctx, int64(n), opAttr(op))
}

// RecordError counts one failure of op, classified as kind.
func (m *Metrics) RecordError(ctx context.Context, op, kind string) {
	m.Errors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("kind", kind),
		),
	)
}
