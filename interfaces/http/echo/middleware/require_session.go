package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	ctxutil "github.com/octabyte/yoga-studio/utils/context"
)

// RequireSession answers 401 unless SetSessionFromJWTToken found a valid
// session.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := ctxutil.GetSessionFromContext(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}
