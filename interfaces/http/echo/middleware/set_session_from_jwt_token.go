package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/octabyte/yoga-studio/models"
	ctxutil "github.com/octabyte/yoga-studio/utils/context"
	"github.com/tidwall/gjson"
)

// SetSessionFromJWTToken reads the "user" claim of the token found by
// SetTokenInContext and stores it as the request's session. verify checks the
// signature first; tokens it rejects are ignored.
func SetSessionFromJWTToken(verify func(token string) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ctxutil.GetTokenFromContext(c.Request().Context())
			if token == "" {
				return next(c)
			}

			if verify != nil {
				if err := verify(token); err != nil {
					log.Debugf("Rejected session token: %v", err)
					return next(c)
				}
			}

			parts := strings.Split(token, ".")
			if len(parts) != 3 {
				return next(c)
			}

			payload, err := base64.RawURLEncoding.DecodeString(parts[1])
			if err != nil {
				return next(c)
			}

			user := gjson.GetBytes(payload, "user")
			if !user.IsObject() {
				return next(c)
			}

			var info models.SessionInformation
			if err := json.Unmarshal([]byte(user.Raw), &info); err != nil {
				log.Errorf("Error decoding session claim: %v", err)
				return next(c)
			}
			info.Token = token

			c.Set(SessionKey, info)
			c.SetRequest(c.Request().WithContext(ctxutil.WithSession(c.Request().Context(), info)))
			return next(c)
		}
	}
}
