package main

import (
	"context"
	"fmt"
	"io"

	"github.com/octabyte/yoga-studio/config"
	"github.com/octabyte/yoga-studio/db/redis"
	"github.com/octabyte/yoga-studio/otel"
	"github.com/octabyte/yoga-studio/otel/metrics"
	"github.com/octabyte/yoga-studio/services"
	"github.com/octabyte/yoga-studio/store"
	"github.com/octabyte/yoga-studio/transport"
	"github.com/octabyte/yoga-studio/utils"
	"github.com/octabyte/yoga-studio/utils/logger"
	"go.uber.org/zap"
)

const (
	serviceName         = "yogactl"
	clientVersionHeader = "X-Client-Version"
)

type app struct {
	out      io.Writer
	sessions *store.SessionStore
	auth     *services.AuthService
	api      *services.SessionAPI
	teachers *services.TeacherAPI
	users    *services.UserAPI

	closers []func()
}

// Replaced in tests.
var (
	initTelemetry = otel.InitOpenTelemetry
	syncLogger    = logger.Sync
)

// newApp wires the client from the configuration. On failure every closer
// registered so far has already run.
func newApp(ctx context.Context, configPath string, out io.Writer) (_ *app, err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.LoggerConfig(serviceName))
	a := &app{out: out, sessions: store.NewSessionStore()}
	a.closers = append(a.closers, syncLogger)
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	shutdown, err := initTelemetry(ctx, cfg.TelemetryConfig(serviceName, version))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdown)
	if cfg.Otel.Enabled {
		if err := metrics.Init(serviceName); err != nil {
			return nil, err
		}
	}

	if err := a.attachPersister(ctx, cfg); err != nil {
		return nil, err
	}

	client, err := transport.New(cfg.TransportConfig(serviceName),
		transport.WithDecorator(transport.StaticHeader(clientVersionHeader, version)),
		transport.WithDecorator(transport.BearerToken(a.sessions)),
	)
	if err != nil {
		return nil, err
	}
	a.auth = services.NewAuthService(client)
	a.api = services.NewSessionAPI(client)
	a.teachers = services.NewTeacherAPI(client)
	a.users = services.NewUserAPI(client)

	return a, nil
}

// attachPersister restores the saved login and keeps the saved copy in step
// with the store afterwards.
func (a *app) attachPersister(ctx context.Context, cfg *config.Config) error {
	var p store.Persister
	switch cfg.Session.Store {
	case config.SessionStoreNone:
		return nil
	case config.SessionStoreRedis:
		client, err := redis.NewRedisClient(ctx, cfg.RedisConfig())
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		p = redis.NewSessionPersister(client, cfg.Session.Key, cfg.Session.TTL)
	default:
		p = store.NewFilePersister(cfg.Session.File)
	}

	restored, err := store.Restore(ctx, a.sessions, p)
	if err != nil {
		logger.LogWarn("ignoring saved session", zap.Error(err))
	}
	logger.LogDebug("session store ready", zap.Bool("restored", restored), zap.String("store", cfg.Session.Store))

	a.closers = append(a.closers, store.Persist(ctx, a.sessions, p))
	return nil
}

// close runs the closers in reverse order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) print(v interface{}) error {
	text, err := utils.StructToIndentedString(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, text)
	return err
}

func (a *app) requireLogin() (int64, error) {
	info := a.sessions.SessionInformation()
	if info == nil {
		return 0, fmt.Errorf("not logged in, run yogactl login first")
	}
	return info.ID, nil
}
