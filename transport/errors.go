package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrTransport marks failures where no HTTP response was received.
	ErrTransport = errors.New("transport failure")
	// ErrDecode marks a 2xx response whose body could not be decoded.
	ErrDecode = errors.New("response decode failure")

	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx answer from the studio API.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Unwrap maps the status code onto one of the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrServer
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

const maxPlainMessage = 200

// messageFromBody extracts a human message from an error body: the "message"
// or "error" member of a JSON object, a short plain-text body, or the status
// text.
func messageFromBody(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "error"} {
			if value := gjson.GetBytes(body, key); value.Type == gjson.String && value.String() != "" {
				return value.String()
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= maxPlainMessage {
		return text
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
