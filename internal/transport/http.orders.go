package transport

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	orders "bistroDesk/internal/modules/orders/domain"
)

type checkoutRequest struct {
	CustomerName    string `json:"name"`
	CustomerContact string `json:"contact"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (h *Handler) checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	record, err := h.app.Checkout(c.Request().Context(), req.CustomerName, req.CustomerContact, req.PaymentMethod)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, record)
}

func (h *Handler) listOrders(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"orders": h.app.Catalog.History()})
}

func (h *Handler) getOrder(c echo.Context) error {
	record, ok := h.app.OrderByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, record)
}

func (h *Handler) getReceipt(c echo.Context) error {
	receipt, ok := h.app.Receipt(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(receipt))
}

func (h *Handler) getShareLink(c echo.Context) error {
	record, ok := h.app.OrderByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	receipt, _ := h.app.Receipt(record.ID)

	var link string
	switch channel := strings.ToLower(strings.TrimSpace(c.QueryParam("channel"))); channel {
	case "whatsapp", "":
		link = orders.WhatsAppLink(record.CustomerContact, receipt)
	case "sms":
		link = orders.SMSLink(record.CustomerContact, receipt)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown channel: "+channel)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": link})
}
