package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/octabyte/yoga-studio/utils"
	ctxutil "github.com/octabyte/yoga-studio/utils/context"
)

// SetTokenInContext stores the raw bearer token under TokenKey and in the
// request context. The Authorization header wins over the session cookie.
func SetTokenInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if _, value, ok := utils.ParseAuthorizationHeader(c.Request().Header.Get(Authorization)); ok {
				token = value
			}

			if token == "" {
				cookie, err := c.Cookie(SessionCookie)
				if err == nil {
					token = cookie.Value
				}
			}

			if token == "" {
				return next(c)
			}

			c.Set(TokenKey, token)
			c.SetRequest(c.Request().WithContext(ctxutil.WithToken(c.Request().Context(), token)))
			return next(c)
		}
	}
}
