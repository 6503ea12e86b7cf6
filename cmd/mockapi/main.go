package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/octabyte/yoga-studio/config"
	"github.com/octabyte/yoga-studio/mockapi"
	"github.com/octabyte/yoga-studio/otel"
	"github.com/octabyte/yoga-studio/utils/logger"
	"go.uber.org/zap"
)

const (
	version     = "0.1.0"
	serviceName = "yoga-mockapi"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	addr := flag.String("addr", "", "Listen address, overrides mockapi.addr")
	empty := flag.Bool("empty", false, "Start without the seeded admin and teachers")
	flag.Parse()

	if err := serve(*configPath, *addr, *empty); err != nil {
		log.Fatal(err)
	}
}

func serve(configPath, addr string, empty bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.MockAPI.Addr
	}

	logger.Init(cfg.LoggerConfig(serviceName))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := otel.InitOpenTelemetry(ctx, cfg.TelemetryConfig(serviceName, version))
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	secret := cfg.MockAPI.Secret
	if secret == "" {
		secret = uuid.NewString()
		logger.LogWarn("mockapi.secret not set, tokens will not survive a restart")
	}

	mockCfg := mockapi.Config{
		Secret:   secret,
		TokenTTL: cfg.MockAPI.TokenTTL,
		Empty:    empty,
	}
	if cfg.Otel.Enabled {
		mockCfg.ServiceName = serviceName
	}
	server, err := mockapi.New(mockCfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("mock studio API listening", zap.String("addr", addr), zap.String("admin", mockapi.AdminEmail))
		errCh <- server.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
