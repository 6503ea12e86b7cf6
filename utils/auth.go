package utils

import (
	"fmt"
	"strings"

	"github.com/octabyte/yoga-studio/enums"
)

// AuthorizationHeader builds an Authorization header value. An empty scheme
// falls back to Bearer.
func AuthorizationHeader(scheme, token string) string {
	if scheme == "" {
		scheme = enums.TokenTypeBearer
	}
	return fmt.Sprintf("%s %s", scheme, token)
}

// ParseAuthorizationHeader splits "<scheme> <token>". A bare token is accepted
// and reported with the Bearer scheme.
func ParseAuthorizationHeader(header string) (scheme, token string, ok bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 1 {
		if strings.EqualFold(parts[0], enums.TokenTypeBearer) {
			return "", "", false
		}
		return enums.TokenTypeBearer, parts[0], true
	}

	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "", false
	}
	return parts[0], token, true
}
