package mockapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminEmail    = "yoga@studio.com"
	AdminPassword = "test!1234"

	DefaultTokenTTL = 24 * time.Hour
)

type Config struct {
	// Secret signs the issued HS256 tokens.
	Secret string `validate:"required,min=16"`
	// APIPrefix defaults to "/api".
	APIPrefix string
	TokenTTL  time.Duration `validate:"gte=0"`
	// ServiceName enables request tracing when set.
	ServiceName string
	// PasswordCost is the bcrypt cost, bcrypt.DefaultCost when zero.
	PasswordCost int `validate:"omitempty,min=4,max=31"`
	// Empty starts without the seeded admin and teachers.
	Empty bool
}

func (cfg *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}

func (cfg *Config) setDefaults() {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = bcrypt.DefaultCost
	}
}
