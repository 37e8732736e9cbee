package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	cart "bistroDesk/internal/modules/cart/domain"
)

type adjustCartRequest struct {
	ItemID string `json:"itemId"`
	Size   string `json:"size"`
	Delta  int    `json:"delta"`
}

func (h *Handler) getCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.app.Cart())
}

func (h *Handler) adjustCart(c echo.Context) error {
	var req adjustCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ItemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "itemId is required")
	}
	if req.Delta == 0 {
		req.Delta = 1
	}
	size, err := cart.ParseSize(req.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, ok := h.app.AdjustCart(req.ItemID, size, req.Delta)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) clearCart(c echo.Context) error {
	h.app.ClearCart()
	return c.NoContent(http.StatusNoContent)
}
