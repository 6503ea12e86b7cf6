package context

import (
	"context"

	"github.com/octabyte/yoga-studio/models"
)

type contextKey string

const (
	sessionKey contextKey = "requestSession"
	tokenKey   contextKey = "requestToken"
)

// WithSession returns a copy of ctx carrying the caller's identity.
func WithSession(ctx context.Context, info models.SessionInformation) context.Context {
	return context.WithValue(ctx, sessionKey, info)
}

func GetSessionFromContext(ctx context.Context) (models.SessionInformation, bool) {
	info, ok := ctx.Value(sessionKey).(models.SessionInformation)
	return info, ok
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetTokenFromContext returns the raw bearer token, or "" when none was sent.
func GetTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
