package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"printshop-backend/internal/auth"
	"printshop-backend/internal/dto"
)

type AuthHandler struct {
	jwtSecret string
}

func NewAuthHandler(jwtSecret string) *AuthHandler {
	return &AuthHandler{jwtSecret: jwtSecret}
}

// IssueToken mints a bearer token for a user id. Demo stand-in for a real
// identity provider; later we can swap this for session-backed login.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req dto.TokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	token, err := auth.GenerateToken(h.jwtSecret, req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.TokenResponse{Token: token})
}
