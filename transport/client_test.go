package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type staticToken struct {
	token string
}

func (s staticToken) Token() (string, string, bool) {
	if s.token == "" {
		return "", "", false
	}
	return "Bearer", s.token, true
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL}, opts...)
	require.NoError(t, err)
	return client
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	_, err = New(Config{BaseURL: "not a url"})
	require.Error(t, err)

	client, err := New(Config{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", client.BaseURL())

	client, err = New(Config{BaseURL: "http://localhost:8080", APIPrefix: "v2/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v2", client.BaseURL())
}

func TestDoDecodesResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/session/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"Morning flow"}`))
	})

	var result struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := client.Do(context.Background(), Call{
		Operation:  "session.detail",
		Method:     http.MethodGet,
		Path:       "/session/{id}",
		PathParams: map[string]string{"id": "7"},
		Result:     &result,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.ID)
	assert.Equal(t, "Morning flow", result.Name)
}

func TestDoPropagatesTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	previous := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(previous) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "yogactl")
	defer span.End()

	var traceparent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Do(ctx, Call{Operation: "session.all", Method: http.MethodGet, Path: "/session"}))
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}

func TestDoEscapesPathParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/session/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusOK)
	})

	err := client.Do(context.Background(), Call{
		Method:     http.MethodDelete,
		Path:       "/session/{id}",
		PathParams: map[string]string{"id": "a/b"},
	})
	require.NoError(t, err)
}

func TestDoSendsJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"email":"yoga@studio.com"}`, string(body))
		w.WriteHeader(http.StatusOK)
	})

	err := client.Do(context.Background(), Call{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"email": "yoga@studio.com"},
	})
	require.NoError(t, err)
}

func TestDoAppliesDecorators(t *testing.T) {
	src := &staticToken{}
	var authorization, clientHeader string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get(AuthorizationHeader)
		clientHeader = r.Header.Get("X-Client")
		w.WriteHeader(http.StatusNoContent)
	}, WithDecorator(BearerToken(src)), WithDecorator(StaticHeader("X-Client", "yogactl")))

	require.NoError(t, client.Do(context.Background(), Call{Method: http.MethodGet, Path: "/teacher"}))
	assert.Empty(t, authorization)
	assert.Equal(t, "yogactl", clientHeader)

	src.token = "abc"
	require.NoError(t, client.Do(context.Background(), Call{Method: http.MethodGet, Path: "/teacher"}))
	assert.Equal(t, "Bearer abc", authorization)
}

func TestDecoratorErrorSkipsRequest(t *testing.T) {
	hits := 0
	refused := errors.New("no credential")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	}, WithDecorator(func(*resty.Request) error { return refused }))

	err := client.Do(context.Background(), Call{Method: http.MethodGet, Path: "/teacher"})
	require.ErrorIs(t, err, refused)
	assert.Zero(t, hits)
}

func TestDoMapsErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"json message", http.StatusBadRequest, `{"message":"Email already taken"}`, ErrBadRequest, "Email already taken"},
		{"json error", http.StatusUnauthorized, `{"error":"Unauthorized","path":"/api/session"}`, ErrUnauthorized, "Unauthorized"},
		{"plain text", http.StatusNotFound, "no such session", ErrNotFound, "no such session"},
		{"empty", http.StatusForbidden, "", ErrForbidden, "Forbidden"},
		{"conflict", http.StatusConflict, `{}`, ErrConflict, "Conflict"},
		{"server", http.StatusInternalServerError, "", ErrServer, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.Do(context.Background(), Call{Method: http.MethodGet, Path: "/session/1"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.status, StatusCode(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, http.MethodGet, apiErr.Method)
			assert.Contains(t, apiErr.URL, "/api/session/1")
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestDoDecodeFailures(t *testing.T) {
	body := ""
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	var result map[string]interface{}
	err := client.Do(context.Background(), Call{Method: http.MethodGet, Path: "/user/1", Result: &result})
	assert.ErrorIs(t, err, ErrDecode)

	body = "{not json"
	err = client.Do(context.Background(), Call{Method: http.MethodGet, Path: "/user/1", Result: &result})
	assert.ErrorIs(t, err, ErrDecode)

	err = client.Do(context.Background(), Call{Method: http.MethodGet, Path: "/user/1"})
	assert.NoError(t, err)
}

func TestDoTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(Config{BaseURL: url, ServiceName: "yoga-studio-test"})
	require.NoError(t, err)

	err = client.Do(context.Background(), Call{Operation: "teacher.all", Method: http.MethodGet, Path: "/teacher"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Zero(t, StatusCode(err))
}

func TestDoHonoursCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Do(ctx, Call{Method: http.MethodGet, Path: "/teacher"})
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}
