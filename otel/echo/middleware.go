package echo

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TokenContextKey is the echo context key holding the raw bearer token.
const TokenContextKey = "requestToken"

// Middleware returns an Echo middleware that instruments HTTP requests with
// OpenTelemetry. Requests for which skipper returns true are not traced.
func Middleware(serviceName string, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	baseMiddleware := otelecho.Middleware(serviceName)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		// Attributes are added inside the otelecho span, before it ends.
		traced := baseMiddleware(func(c echo.Context) error {
			err := next(c)

			span := trace.SpanFromContext(c.Request().Context())
			if span.IsRecording() {
				span.SetAttributes(
					attribute.String("http.route", c.Path()),
					attribute.String("http.method", c.Request().Method),
				)

				if token, ok := c.Get(TokenContextKey).(string); ok && token != "" {
					span.SetAttributes(attribute.String("user.token_present", "true"))
				}

				if err != nil {
					span.SetAttributes(attribute.String("error.message", err.Error()))
				}
			}

			return err
		})

		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}
			return traced(c)
		}
	}
}
