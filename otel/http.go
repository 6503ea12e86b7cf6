package otel

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// StartHTTPSpan creates a span for HTTP client calls with standard attributes
// Returns the updated context and a finish function to be called after the HTTP request completes
func StartHTTPSpan(ctx context.Context, serviceName string, clientName string, operation string, method string, baseURL string, url string) (context.Context, func(statusCode int, err error)) {
	tracer := otel.Tracer(serviceName)
	spanName := fmt.Sprintf("HTTP.%s.%s", clientName, operation)
	ctx, span := tracer.Start(ctx, spanName)

	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(method),
		semconv.URLFull(baseURL+url),
		attribute.String("http.target", url),
	)

	return ctx, func(statusCode int, err error) {
		defer span.End()

		if statusCode > 0 {
			span.SetAttributes(semconv.HTTPResponseStatusCodeKey.Int(statusCode))
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if statusCode >= 400 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
		} else {
			span.SetStatus(codes.Ok, "success")
		}
	}
}

// InjectTraceHeaders writes the W3C trace context of ctx into headers,
// allocating the map when nil.
func InjectTraceHeaders(ctx context.Context, headers map[string]string) map[string]string {
	if headers == nil {
		headers = make(map[string]string)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
	return headers
}

// WithTraceHeaders is a resty OnBeforeRequest hook propagating the request
// context's trace.
func WithTraceHeaders(_ *resty.Client, req *resty.Request) error {
	for key, value := range InjectTraceHeaders(req.Context(), nil) {
		req.SetHeader(key, value)
	}
	return nil
}

// NewTracedRestyClient returns a resty client rooted at baseURL that
// propagates trace headers. A nil hc uses resty's default client.
func NewTracedRestyClient(baseURL string, hc *http.Client) *resty.Client {
	var rc *resty.Client
	if hc != nil {
		rc = resty.NewWithClient(hc)
	} else {
		rc = resty.New()
	}
	return rc.SetBaseURL(baseURL).OnBeforeRequest(WithTraceHeaders)
}
