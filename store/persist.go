package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/octabyte/yoga-studio/models"
	otellogger "github.com/octabyte/yoga-studio/otel/logger"
	"github.com/octabyte/yoga-studio/utils"
	"go.uber.org/zap"
)

// ErrNoSession is returned by Persister.Load when nothing was saved.
var ErrNoSession = errors.New("no saved session")

// Persister keeps a login across process restarts.
type Persister interface {
	Load(ctx context.Context) (*models.SessionInformation, error)
	Save(ctx context.Context, info models.SessionInformation) error
	Clear(ctx context.Context) error
}

// Restore logs s in with the saved identity. It returns false, nil when
// nothing was saved.
func Restore(ctx context.Context, s *SessionStore, p Persister) (bool, error) {
	info, err := p.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to restore session: %w", err)
	}
	s.LogIn(*info)
	return true, nil
}

// Persist mirrors s into p: every login is saved and every logout clears the
// saved copy. Failures are logged and never reach the store. The returned
// function stops mirroring.
//
// The current state is replayed on subscribe, so a logged-out store clears p
// right away. Call Restore first to keep a saved login.
func Persist(ctx context.Context, s *SessionStore, p Persister) (stop func()) {
	return s.Subscribe(func(logged bool) {
		if !logged {
			if err := p.Clear(ctx); err != nil {
				otellogger.ErrorCtx(ctx, "failed to clear saved session", err)
			}
			return
		}

		info := s.SessionInformation()
		if info == nil {
			return
		}
		if err := p.Save(ctx, *info); err != nil {
			otellogger.ErrorCtx(ctx, "failed to save session", err, zap.Int64("user_id", info.ID))
		}
	})
}

// FilePersister stores the identity as JSON in a single file readable only
// by its owner.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

func (f *FilePersister) Load(_ context.Context) (*models.SessionInformation, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	var info models.SessionInformation
	if err := utils.BytesToStruct(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path, err)
	}
	return &info, nil
}

func (f *FilePersister) Save(_ context.Context, info models.SessionInformation) error {
	data, err := utils.StructToBytes(info)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(f.Path), err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.Path, err)
	}
	return nil
}

func (f *FilePersister) Clear(_ context.Context) error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", f.Path, err)
	}
	return nil
}

// MemoryPersister is an in-process Persister.
type MemoryPersister struct {
	mu   sync.Mutex
	info *models.SessionInformation
}

func (m *MemoryPersister) Load(_ context.Context) (*models.SessionInformation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.info == nil {
		return nil, ErrNoSession
	}
	info := *m.info
	return &info, nil
}

func (m *MemoryPersister) Save(_ context.Context, info models.SessionInformation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info = &info
	return nil
}

func (m *MemoryPersister) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info = nil
	return nil
}
