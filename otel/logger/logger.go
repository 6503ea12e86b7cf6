package logger

import (
	"context"

	"github.com/octabyte/yoga-studio/utils/logger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InfoCtx logs an info message with the trace context of ctx
func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logger.LogInfo(msg, append(fields, TraceFields(ctx)...)...)
}

// ErrorCtx logs an error message with trace context
func ErrorCtx(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogError(msg, append(fields, TraceFields(ctx)...)...)
}

// WarnCtx logs a warning message with trace context
func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logger.LogWarn(msg, append(fields, TraceFields(ctx)...)...)
}

// DebugCtx logs a debug message with trace context
func DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logger.LogDebug(msg, append(fields, TraceFields(ctx)...)...)
}

// TraceFields returns trace_id and span_id fields, or nothing when ctx
// carries no valid span.
func TraceFields(ctx context.Context) []zap.Field {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", traceID),
		zap.String("span_id", GetSpanID(ctx)),
	}
}

// GetTraceID extracts the trace ID from context
func GetTraceID(ctx context.Context) string {
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.IsValid() {
		return spanContext.TraceID().String()
	}
	return ""
}

// GetSpanID extracts the span ID from context
func GetSpanID(ctx context.Context) string {
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.IsValid() {
		return spanContext.SpanID().String()
	}
	return ""
}
