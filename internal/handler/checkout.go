package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"printshop-backend/internal/dto"
	"printshop-backend/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.checkoutService.CreateSession(ctx, userIDFromContext(c), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}
