package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/models"
	"github.com/octabyte/yoga-studio/transport"
)

var (
	sessionsPath    = "/" + enums.SessionResource
	sessionPath     = sessionsPath + "/{id}"
	participantPath = sessionPath + "/" + enums.ParticipateResource + "/{userId}"
)

var ErrInvalidInterval = errors.New("poll interval must be positive")

type SessionAPI struct {
	client *transport.Client
}

func NewSessionAPI(client *transport.Client) *SessionAPI {
	return &SessionAPI{client: client}
}

func (s *SessionAPI) All(ctx context.Context) ([]models.Session, error) {
	sessions := []models.Session{}
	err := s.client.Do(ctx, transport.Call{
		Operation: "session.all",
		Method:    http.MethodGet,
		Path:      sessionsPath,
		Result:    &sessions,
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *SessionAPI) Detail(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.client.Do(ctx, transport.Call{
		Operation:  "session.detail",
		Method:     http.MethodGet,
		Path:       sessionPath,
		PathParams: map[string]string{"id": id},
		Result:     &session,
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create returns the session as stored by the server, id included.
func (s *SessionAPI) Create(ctx context.Context, session models.Session) (*models.Session, error) {
	if err := models.Validate(session); err != nil {
		return nil, err
	}

	var created models.Session
	err := s.client.Do(ctx, transport.Call{
		Operation: "session.create",
		Method:    http.MethodPost,
		Path:      sessionsPath,
		Body:      session,
		Result:    &created,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *SessionAPI) Update(ctx context.Context, id string, session models.Session) (*models.Session, error) {
	if err := models.Validate(session); err != nil {
		return nil, err
	}

	var updated models.Session
	err := s.client.Do(ctx, transport.Call{
		Operation:  "session.update",
		Method:     http.MethodPut,
		Path:       sessionPath,
		PathParams: map[string]string{"id": id},
		Body:       session,
		Result:     &updated,
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *SessionAPI) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, transport.Call{
		Operation:  "session.delete",
		Method:     http.MethodDelete,
		Path:       sessionPath,
		PathParams: map[string]string{"id": id},
	})
}

func (s *SessionAPI) Participate(ctx context.Context, id, userID string) error {
	return s.client.Do(ctx, transport.Call{
		Operation:  "session.participate",
		Method:     http.MethodPost,
		Path:       participantPath,
		PathParams: map[string]string{"id": id, "userId": userID},
	})
}

func (s *SessionAPI) UnParticipate(ctx context.Context, id, userID string) error {
	return s.client.Do(ctx, transport.Call{
		Operation:  "session.unparticipate",
		Method:     http.MethodDelete,
		Path:       participantPath,
		PathParams: map[string]string{"id": id, "userId": userID},
	})
}

// Poll calls All right away and then every interval, handing each outcome to
// fn, until ctx is done. It returns ErrInvalidInterval without calling fn when
// interval is not positive.
func (s *SessionAPI) Poll(ctx context.Context, interval time.Duration, fn func([]models.Session, error)) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sessions, err := s.All(ctx)
		if ctx.Err() != nil {
			return nil
		}
		fn(sessions, err)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
