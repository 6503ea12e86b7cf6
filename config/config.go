// Package config loads the settings shared by yogactl and mockapi from a
// YAML file and YOGA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/octabyte/yoga-studio/db/redis"
	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/otel"
	"github.com/octabyte/yoga-studio/transport"
	"github.com/octabyte/yoga-studio/utils/logger"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "YOGA"
	FileName  = "yoga"

	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
	SessionStoreNone  = "none"
)

type Config struct {
	Env string `mapstructure:"env"`

	API struct {
		BaseURL string        `mapstructure:"base_url" validate:"required,url"`
		Prefix  string        `mapstructure:"prefix"`
		Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	} `mapstructure:"api"`

	Session struct {
		Store string        `mapstructure:"store" validate:"oneof=file redis none"`
		File  string        `mapstructure:"file" validate:"required_if=Store file"`
		Key   string        `mapstructure:"key"`
		TTL   time.Duration `mapstructure:"ttl" validate:"gte=0"`
	} `mapstructure:"session"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`
	} `mapstructure:"redis"`

	Log struct {
		Level    string `mapstructure:"level"`
		Encoding string `mapstructure:"encoding" validate:"oneof=json console"`
	} `mapstructure:"log"`

	Otel struct {
		Enabled    bool    `mapstructure:"enabled"`
		Endpoint   string  `mapstructure:"endpoint" validate:"required_if=Enabled true"`
		SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	} `mapstructure:"otel"`

	MockAPI struct {
		Addr     string        `mapstructure:"addr" validate:"required"`
		Secret   string        `mapstructure:"secret"`
		TokenTTL time.Duration `mapstructure:"token_ttl" validate:"gte=0"`
	} `mapstructure:"mockapi"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.prefix", transport.DefaultAPIPrefix)
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("session.store", SessionStoreFile)
	v.SetDefault("session.file", defaultSessionFile())
	v.SetDefault("session.key", redis.DefaultSessionKey)
	v.SetDefault("session.ttl", 24*time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", enums.LogLevelWarn)
	v.SetDefault("log.encoding", enums.LogEncodingConsole)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.sample_rate", 1.0)

	v.SetDefault("mockapi.addr", ":8080")
	v.SetDefault("mockapi.secret", "")
	v.SetDefault("mockapi.token_ttl", 24*time.Hour)
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "yoga-studio", "session.json")
}

// Load reads path, or yoga.yaml from the working directory and the user
// config directory when path is empty. A missing default file is not an
// error; environment variables such as YOGA_API_BASE_URL override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "yoga-studio"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}

func (cfg *Config) TransportConfig(serviceName string) transport.Config {
	tc := transport.Config{
		BaseURL:   cfg.API.BaseURL,
		APIPrefix: cfg.API.Prefix,
		Timeout:   cfg.API.Timeout,
		UserAgent: serviceName,
	}
	if cfg.Otel.Enabled {
		tc.ServiceName = serviceName
	}
	return tc
}

func (cfg *Config) RedisConfig() redis.Config {
	return redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func (cfg *Config) LoggerConfig(serviceName string) *logger.Config {
	return &logger.Config{
		Level:       cfg.Log.Level,
		Env:         cfg.Env,
		ServiceName: serviceName,
		Encoding:    cfg.Log.Encoding,
		OutputPaths: []string{"stderr"},
	}
}

func (cfg *Config) TelemetryConfig(serviceName, version string) otel.OtelConfig {
	return otel.OtelConfig{
		Enabled:        cfg.Otel.Enabled,
		Endpoint:       cfg.Otel.Endpoint,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    cfg.Env,
		SampleRate:     cfg.Otel.SampleRate,
	}
}
