package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/octabyte/yoga-studio/models"
	"github.com/octabyte/yoga-studio/store"
	"github.com/redis/go-redis/v9"
)

const DefaultSessionKey = "yoga-studio:session"

// SessionPersister implements store.Persister on a single Redis key holding
// the identity as JSON.
type SessionPersister struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewSessionPersister stores under key, or DefaultSessionKey when empty. A
// zero ttl never expires the saved login.
func NewSessionPersister(client redis.Cmdable, key string, ttl time.Duration) *SessionPersister {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionPersister{client: client, key: key, ttl: ttl}
}

func (p *SessionPersister) Load(ctx context.Context) (*models.SessionInformation, error) {
	data, found, err := Get(ctx, p.client, p.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.key, err)
	}
	if !found {
		return nil, store.ErrNoSession
	}

	var info models.SessionInformation
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", p.key, err)
	}
	return &info, nil
}

func (p *SessionPersister) Save(ctx context.Context, info models.SessionInformation) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := Set(ctx, p.client, p.key, data, p.ttl); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.key, err)
	}
	return nil
}

func (p *SessionPersister) Clear(ctx context.Context) error {
	if err := Del(ctx, p.client, p.key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", p.key, err)
	}
	return nil
}
