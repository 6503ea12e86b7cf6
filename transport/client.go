package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/octabyte/yoga-studio/otel"
	otellogger "github.com/octabyte/yoga-studio/otel/logger"
	"github.com/octabyte/yoga-studio/otel/metrics"
	"github.com/octabyte/yoga-studio/utils/logger"
	"go.uber.org/zap"
)

const (
	ClientName          = "studio"
	RequestIDHeader     = "X-Request-Id"
	AuthorizationHeader = "Authorization"
)

// Client executes single round-trips against the studio API. It holds no
// per-call state and never retries.
type Client struct {
	http       *resty.Client
	cfg        Config
	decorators []Decorator
}

type options struct {
	httpClient *http.Client
	decorators []Decorator
}

type Option func(*options)

// WithDecorator appends a request decorator. Decorators run in the order
// they were added.
func WithDecorator(d Decorator) Option {
	return func(o *options) {
		o.decorators = append(o.decorators, d)
	}
}

// WithHTTPClient sets the underlying *http.Client, e.g. for a custom
// transport in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = DefaultAPIPrefix
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	rc := otel.NewTracedRestyClient(strings.TrimRight(cfg.BaseURL, "/")+"/"+strings.Trim(cfg.APIPrefix, "/"), o.httpClient).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(logger.Named("resty").Sugar())

	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		http:       rc,
		cfg:        cfg,
		decorators: o.decorators,
	}, nil
}

// BaseURL is the resolved root every call path is appended to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Call describes one API round-trip.
type Call struct {
	// Operation names the call in spans and logs, e.g. "session.detail".
	Operation string
	Method    string
	// Path is relative to the API prefix and may hold {name} placeholders
	// filled from PathParams, which are path-escaped.
	Path       string
	PathParams map[string]string
	Body       interface{}
	// Result receives the decoded 2xx body. Nil discards the body.
	Result interface{}
}

// Do performs the call. A non-2xx answer yields *APIError, a failure to get
// any answer wraps ErrTransport and the underlying cause.
func (c *Client) Do(ctx context.Context, call Call) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	requestID := uuid.NewString()
	req := c.http.R().SetHeader(RequestIDHeader, requestID)
	if len(call.PathParams) > 0 {
		req.SetPathParams(call.PathParams)
	}
	if call.Body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(call.Body)
	}

	for _, decorate := range c.decorators {
		if err := decorate(req); err != nil {
			return fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
		}
	}

	statusCode := 0
	if c.cfg.ServiceName != "" {
		var finish func(int, error)
		ctx, finish = otel.StartHTTPSpan(ctx, c.cfg.ServiceName, ClientName, call.Operation, call.Method, c.http.BaseURL, call.Path)
		defer func() { finish(statusCode, err) }()
	}
	req.SetContext(ctx)

	fields := []zap.Field{
		zap.String("operation", call.Operation),
		zap.String("method", call.Method),
		zap.String("route", call.Path),
		zap.String("request_id", requestID),
	}

	start := time.Now()
	metrics.IncrementInFlightRequests(ctx, call.Method, call.Path)
	resp, execErr := req.Execute(call.Method, call.Path)
	metrics.DecrementInFlightRequests(ctx, call.Method, call.Path)

	if execErr != nil {
		metrics.RecordHTTPRequest(ctx, call.Method, call.Path, 0, time.Since(start), 0, 0)
		otellogger.WarnCtx(ctx, "studio api unreachable", append(fields, zap.Error(execErr))...)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, call.Method, requestURL(req, call.Path), execErr)
	}

	statusCode = resp.StatusCode()
	metrics.RecordHTTPRequest(ctx, call.Method, call.Path, statusCode, resp.Time(), requestSize(resp), resp.Size())
	fields = append(fields, zap.Int("status", statusCode), zap.Duration("duration", resp.Time()))

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{
			Method:     call.Method,
			URL:        requestURL(req, call.Path),
			StatusCode: statusCode,
			Message:    messageFromBody(resp.Body(), statusCode),
			RequestID:  requestID,
		}
		otellogger.WarnCtx(ctx, "studio api call rejected", append(fields, zap.String("message", apiErr.Message))...)
		return apiErr
	}

	otellogger.DebugCtx(ctx, "studio api call", fields...)

	if call.Result == nil {
		return nil
	}
	body := resp.Body()
	if len(body) == 0 {
		return fmt.Errorf("%w: %s %s: empty body", ErrDecode, call.Method, requestURL(req, call.Path))
	}
	if err := json.Unmarshal(body, call.Result); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecode, call.Method, requestURL(req, call.Path), err)
	}
	return nil
}

func requestURL(req *resty.Request, fallback string) string {
	if req.URL != "" {
		return req.URL
	}
	return fallback
}

func requestSize(resp *resty.Response) int64 {
	if resp.Request == nil || resp.Request.RawRequest == nil {
		return 0
	}
	return resp.Request.RawRequest.ContentLength
}
