package transport

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const DefaultAPIPrefix = "/api"

type Config struct {
	// BaseURL is the studio origin, e.g. "http://localhost:8080".
	BaseURL string `validate:"required,url"`
	// APIPrefix is prepended to every resource path. Defaults to "/api".
	APIPrefix string
	// Timeout bounds a whole request. Zero leaves it to the caller's context.
	Timeout time.Duration `validate:"gte=0"`
	// ServiceName enables a tracing span per call when set.
	ServiceName string
	UserAgent   string
}

func (cfg *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}
