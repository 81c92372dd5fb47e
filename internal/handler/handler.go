package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/middleware"
)

// httpError maps the service error taxonomy onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrProvider):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return err
	}
}

func userIDFromContext(c echo.Context) string {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	return userID
}
