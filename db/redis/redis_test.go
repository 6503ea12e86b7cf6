package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/octabyte/yoga-studio/models"
	"github.com/octabyte/yoga-studio/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid config", cfg: Config{Addr: "localhost:6379"}},
		{name: "missing addr", cfg: Config{}, wantErr: true},
		{name: "addr without port", cfg: Config{Addr: "localhost"}, wantErr: true},
		{name: "db out of range", cfg: Config{Addr: "localhost:6379", DB: 16}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type RedisTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	client    *redis.Client
}

func (s *RedisTestSuite) SetupSuite() {
	tContainer.SkipIfProviderIsNotHealthy(s.T())
	s.ctx = context.Background()

	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: tContainer.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "6379")
	s.Require().NoError(err)

	client, err := NewRedisClient(s.ctx, Config{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(err)
	s.client = client
}

func (s *RedisTestSuite) TearDownSuite() {
	if s.client != nil {
		s.NoError(s.client.Close())
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

func (s *RedisTestSuite) TestSessionPersister() {
	p := NewSessionPersister(s.client, "test:session", time.Minute)
	info := models.SessionInformation{ID: 3, Username: "member@studio.com", Token: "jwt", Type: "Bearer"}

	_, err := p.Load(s.ctx)
	s.ErrorIs(err, store.ErrNoSession)

	s.Require().NoError(p.Save(s.ctx, info))
	loaded, err := p.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(info, *loaded)

	ttl, err := TTL(s.ctx, s.client, "test:session")
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.Require().NoError(p.Clear(s.ctx))
	_, err = p.Load(s.ctx)
	s.ErrorIs(err, store.ErrNoSession)
}

func (s *RedisTestSuite) TestPersistMirrorsStore() {
	p := NewSessionPersister(s.client, "", 0)
	sessions := store.NewSessionStore()

	stop := store.Persist(s.ctx, sessions, p)
	defer stop()

	sessions.LogIn(models.SessionInformation{ID: 1, Token: "jwt"})
	_, found, err := Get(s.ctx, s.client, DefaultSessionKey)
	s.Require().NoError(err)
	s.True(found)

	restored := store.NewSessionStore()
	ok, err := store.Restore(s.ctx, restored, p)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(int64(1), restored.SessionInformation().ID)

	sessions.LogOut()
	_, found, err = Get(s.ctx, s.client, DefaultSessionKey)
	s.Require().NoError(err)
	s.False(found)
}

func (s *RedisTestSuite) TestNewRedisClientUnreachable() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, Config{Addr: "127.0.0.1:1"})
	s.Error(err)
}

func TestRedisTestSuite(t *testing.T) {
	suite.Run(t, new(RedisTestSuite))
}
