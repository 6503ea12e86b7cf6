package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter metric.Meter

	// HTTP client metrics
	httpRequestsTotal    metric.Int64Counter
	httpRequestDuration  metric.Float64Histogram
	httpRequestsInFlight metric.Int64UpDownCounter
	httpRequestSize      metric.Int64Histogram
	httpResponseSize     metric.Int64Histogram
)

// Init registers the outgoing request instruments on the global meter
// provider. Recording before Init is a no-op.
func Init(serviceName string) error {
	meter = otel.Meter(serviceName)

	var err error

	httpRequestsTotal, err = meter.Int64Counter(
		"http_client_requests_total",
		metric.WithDescription("Total number of outgoing HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_client_requests_total counter: %w", err)
	}

	httpRequestDuration, err = meter.Float64Histogram(
		"http_client_request_duration_seconds",
		metric.WithDescription("Outgoing HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_client_request_duration_seconds histogram: %w", err)
	}

	httpRequestsInFlight, err = meter.Int64UpDownCounter(
		"http_client_requests_in_flight",
		metric.WithDescription("Number of outgoing HTTP requests awaiting a response"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_client_requests_in_flight gauge: %w", err)
	}

	httpRequestSize, err = meter.Int64Histogram(
		"http_client_request_size_bytes",
		metric.WithDescription("Outgoing HTTP request body size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_client_request_size_bytes histogram: %w", err)
	}

	httpResponseSize, err = meter.Int64Histogram(
		"http_client_response_size_bytes",
		metric.WithDescription("HTTP response body size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_client_response_size_bytes histogram: %w", err)
	}

	return nil
}

// RecordHTTPRequest records a finished request. statusCode is 0 when no
// response was received.
func RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration, requestSize, responseSize int64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}

	if httpRequestsTotal != nil {
		httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if httpRequestDuration != nil {
		httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}

	if httpRequestSize != nil && requestSize > 0 {
		httpRequestSize.Record(ctx, requestSize, metric.WithAttributes(attrs...))
	}

	if httpResponseSize != nil && responseSize > 0 {
		httpResponseSize.Record(ctx, responseSize, metric.WithAttributes(attrs...))
	}
}

func IncrementInFlightRequests(ctx context.Context, method, route string) {
	if httpRequestsInFlight != nil {
		httpRequestsInFlight.Add(ctx, 1, metric.WithAttributes(routeAttrs(method, route)...))
	}
}

func DecrementInFlightRequests(ctx context.Context, method, route string) {
	if httpRequestsInFlight != nil {
		httpRequestsInFlight.Add(ctx, -1, metric.WithAttributes(routeAttrs(method, route)...))
	}
}

func routeAttrs(method, route string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	}
}
