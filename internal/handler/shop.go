package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"printshop-backend/internal/service"
)

type ShopHandler struct {
	shopService service.ShopService
}

func NewShopHandler(shopService service.ShopService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
	}
}

func (h *ShopHandler) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.shopService.ListItems(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ShopHandler) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.shopService.GetItem(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *ShopHandler) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.shopService.ListOrders(ctx, userIDFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}
