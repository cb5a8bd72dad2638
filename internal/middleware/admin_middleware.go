package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminMiddleware guards mutating routes with a shared token. An empty token
// leaves the routes open, which is the local development setup.
func AdminMiddleware(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}

			given := c.Request().Header.Get(AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized",
				})
			}

			return next(c)
		}
	}
}
