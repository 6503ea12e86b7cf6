package redis

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

// Config holds the configuration for the Redis client
type Config struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0,lte=15"`
}

func (cfg *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}

// NewRedisClient connects and pings the server. The client is closed again
// when the ping fails.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
