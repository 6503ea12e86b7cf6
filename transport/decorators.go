package transport

import (
	"github.com/go-resty/resty/v2"
	"github.com/octabyte/yoga-studio/utils"
)

// Decorator adjusts an outgoing request before it is sent. A decorator error
// aborts the call without any network traffic.
type Decorator func(req *resty.Request) error

// TokenSource yields the credential of the current login, if any.
type TokenSource interface {
	Token() (scheme, token string, ok bool)
}

// BearerToken sets the Authorization header from src. Requests go out
// unauthenticated while src holds no credential.
func BearerToken(src TokenSource) Decorator {
	return func(req *resty.Request) error {
		scheme, token, ok := src.Token()
		if !ok {
			return nil
		}
		req.SetHeader(AuthorizationHeader, utils.AuthorizationHeader(scheme, token))
		return nil
	}
}

func StaticHeader(key, value string) Decorator {
	return func(req *resty.Request) error {
		req.SetHeader(key, value)
		return nil
	}
}
