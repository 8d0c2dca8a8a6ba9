package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Devyalamaddi/CareConnect"

// Metrics holds all worker metrics
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram
	CacheHitCount   metric.Int64Counter
	CacheMissCount  metric.Int64Counter
	FallbackCount   metric.Int64Counter
	SyncReplayCount metric.Int64Counter
	TilesCached     metric.Int64Counter
}

// Setup initializes OpenTelemetry trace and metric export
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(30*time.Second),
		)),
	)
	otel.SetMeterProvider(meterProvider)

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes worker metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of intercepted requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Intercepted request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitCount, err := meter.Int64Counter(
		"partition.hit.count",
		metric.WithDescription("Number of partition cache hits"),
	)
	if err != nil {
		return nil, err
	}

	cacheMissCount, err := meter.Int64Counter(
		"partition.miss.count",
		metric.WithDescription("Number of partition cache misses"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCount, err := meter.Int64Counter(
		"fallback.served.count",
		metric.WithDescription("Number of synthesized fallback responses served"),
	)
	if err != nil {
		return nil, err
	}

	syncReplayCount, err := meter.Int64Counter(
		"sync.replay.count",
		metric.WithDescription("Number of deferred task replay attempts"),
	)
	if err != nil {
		return nil, err
	}

	tilesCached, err := meter.Int64Counter(
		"tiles.cached.count",
		metric.WithDescription("Number of map tiles stored by CACHE_TILES batches"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:    requestCount,
		RequestDuration: requestDuration,
		CacheHitCount:   cacheHitCount,
		CacheMissCount:  cacheMissCount,
		FallbackCount:   fallbackCount,
		SyncReplayCount: syncReplayCount,
		TilesCached:     tilesCached,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records one intercepted request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, policy string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("worker.policy", policy),
		attribute.Int("http.status_code", statusCode),
	}
	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordCacheHit records a partition hit
func RecordCacheHit(ctx context.Context, metrics *Metrics, partition string) {
	if metrics == nil {
		return
	}
	metrics.CacheHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("partition", partition)))
}

// RecordCacheMiss records a partition miss
func RecordCacheMiss(ctx context.Context, metrics *Metrics, partition string) {
	if metrics == nil {
		return
	}
	metrics.CacheMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("partition", partition)))
}

// RecordFallback records a synthesized fallback response
func RecordFallback(ctx context.Context, metrics *Metrics, kind string) {
	if metrics == nil {
		return
	}
	metrics.FallbackCount.Add(ctx, 1, metric.WithAttributes(attribute.String("fallback.kind", kind)))
}

// RecordSyncReplay records one deferred task replay attempt
func RecordSyncReplay(ctx context.Context, metrics *Metrics, tag string, success bool) {
	if metrics == nil {
		return
	}
	metrics.SyncReplayCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sync.tag", tag),
		attribute.Bool("sync.success", success),
	))
}

// RecordTilesCached records stored tiles from a CACHE_TILES batch
func RecordTilesCached(ctx context.Context, metrics *Metrics, count int) {
	if metrics == nil {
		return
	}
	metrics.TilesCached.Add(ctx, int64(count))
}
