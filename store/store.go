// Package store keeps the identity of the current login and broadcasts
// whether someone is logged in.
package store

import (
	"context"
	"sync"

	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/models"
	"github.com/octabyte/yoga-studio/utils/signal"
)

// SessionStore starts logged out. It is safe for concurrent use; emissions
// run on the goroutine that called LogIn or LogOut. Subscribers may read the
// store but must not call LogIn or LogOut.
type SessionStore struct {
	// write serialises LogIn and LogOut so the identity and the emitted value
	// always change together. mu guards info for readers.
	write  sync.Mutex
	mu     sync.RWMutex
	info   *models.SessionInformation
	logged *signal.Value[bool]
}

func NewSessionStore() *SessionStore {
	return &SessionStore{logged: signal.New(false)}
}

// LogIn replaces any stored identity with a copy of info and emits true.
func (s *SessionStore) LogIn(info models.SessionInformation) {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	s.info = &info
	s.mu.Unlock()

	s.logged.Set(true)
}

// LogOut drops the identity and emits false, even when nobody was logged in.
func (s *SessionStore) LogOut() {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	s.info = nil
	s.mu.Unlock()

	s.logged.Set(false)
}

func (s *SessionStore) IsLogged() bool {
	return s.logged.Get()
}

// SessionInformation returns a copy of the stored identity, or nil.
func (s *SessionStore) SessionInformation() *models.SessionInformation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return nil
	}
	info := *s.info
	return &info
}

// Subscribe calls fn with the current logged state and then with every later
// emission.
func (s *SessionStore) Subscribe(fn func(logged bool)) (unsubscribe func()) {
	return s.logged.Subscribe(fn)
}

// WatchLogged is Subscribe as a channel that only keeps the latest value.
func (s *SessionStore) WatchLogged(ctx context.Context) <-chan bool {
	return s.logged.Watch(ctx)
}

// Token implements transport.TokenSource.
func (s *SessionStore) Token() (scheme, token string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil || s.info.Token == "" {
		return "", "", false
	}
	scheme = s.info.Type
	if scheme == "" {
		scheme = enums.TokenTypeBearer
	}
	return scheme, s.info.Token, true
}
