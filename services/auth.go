// Package services wraps the studio API resource groups. Every method is a
// single round-trip; nothing is cached or retried.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/models"
	"github.com/octabyte/yoga-studio/transport"
)

var ErrEmailTaken = errors.New("Email already taken")

var (
	loginPath    = "/" + enums.AuthResource + "/login"
	registerPath = "/" + enums.AuthResource + "/register"
	logoutPath   = "/" + enums.AuthResource + "/logout"
)

// AuthService never touches the session store; callers log the returned
// identity in themselves.
type AuthService struct {
	client *transport.Client
}

func NewAuthService(client *transport.Client) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.SessionInformation, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var info models.SessionInformation
	err := s.client.Do(ctx, transport.Call{
		Operation: "auth.login",
		Method:    http.MethodPost,
		Path:      loginPath,
		Body:      req,
		Result:    &info,
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Register creates an account. A duplicate email yields an error matching
// ErrEmailTaken that still carries the *transport.APIError.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	err := s.client.Do(ctx, transport.Call{
		Operation: "auth.register",
		Method:    http.MethodPost,
		Path:      registerPath,
		Body:      req,
	})
	if isEmailTaken(err) {
		return fmt.Errorf("%w: %w", ErrEmailTaken, err)
	}
	return err
}

// Logout tells the server the token is no longer used. Servers without the
// endpoint answer 404, which counts as done.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.client.Do(ctx, transport.Call{
		Operation: "auth.logout",
		Method:    http.MethodPost,
		Path:      logoutPath,
	})
	if errors.Is(err, transport.ErrNotFound) {
		return nil
	}
	return err
}

func isEmailTaken(err error) bool {
	var apiErr *transport.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusConflict:
		return true
	case http.StatusBadRequest:
		return strings.Contains(strings.ToLower(apiErr.Message), "already taken")
	}
	return false
}
