package mockapi

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token was revoked")
)

type tokenClaims struct {
	User models.SessionInformation `json:"user"`
	jwt.RegisteredClaims
}

// tokenManager issues and checks HS256 tokens and remembers revoked ones.
type tokenManager struct {
	secretKey []byte
	ttl       time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

func newTokenManager(secret string, ttl time.Duration) *tokenManager {
	return &tokenManager{
		secretKey: []byte(secret),
		ttl:       ttl,
		revoked:   map[string]time.Time{},
	}
}

// issue signs a token for user and returns the login answer carrying it.
func (tm *tokenManager) issue(user models.User) (models.SessionInformation, error) {
	info := models.SessionInformation{
		ID:        user.ID,
		Username:  user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Type:      enums.TokenTypeBearer,
		Admin:     user.Admin,
	}

	now := time.Now()
	claims := tokenClaims{
		User: info,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secretKey)
	if err != nil {
		return models.SessionInformation{}, err
	}
	info.Token = token
	return info, nil
}

func (tm *tokenManager) parse(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// verify accepts signed, unexpired and unrevoked tokens.
func (tm *tokenManager) verify(tokenString string) error {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return err
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if _, ok := tm.revoked[claims.ID]; ok {
		return ErrRevokedToken
	}
	return nil
}

func (tm *tokenManager) revoke(tokenString string) error {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return err
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	now := time.Now()
	for id, expiry := range tm.revoked {
		if expiry.Before(now) {
			delete(tm.revoked, id)
		}
	}
	tm.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}
