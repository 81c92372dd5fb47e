package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"printshop-backend/internal/auth"
)

// ContextUserID is the echo context key the buyer id is stored under.
const ContextUserID = "user_id"

// Auth validates the bearer token and puts the caller's user id on the
// request context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			userID, err := auth.ValidateToken(jwtSecret, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextUserID, userID)
			return next(c)
		}
	}
}
