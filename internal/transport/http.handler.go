package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bistroDesk/internal/app"
	catalogusecase "bistroDesk/internal/modules/catalog/application/usecase"
	catalog "bistroDesk/internal/modules/catalog/domain"
	orders "bistroDesk/internal/modules/orders/domain"
	realtime "bistroDesk/internal/modules/realtime/infrastructure"
	"bistroDesk/internal/platform/store"
	"bistroDesk/internal/shared/auth"
	"bistroDesk/internal/shared/httputil"
)

// Handler wires the HTTP surface onto the application state. A nil validator
// leaves the realtime endpoint open, for local single-operator setups that
// never configure a shared secret.
type Handler struct {
	app       *app.App
	hub       *realtime.Hub
	validator auth.TokenValidator
	errors    *httputil.ErrorMapper
}

func NewHandler(a *app.App, hub *realtime.Hub, validator auth.TokenValidator) *Handler {
	mapper := httputil.NewErrorMapper().
		WithMapping(orders.ErrValidationFailed, http.StatusUnprocessableEntity, "validation failed").
		WithMapping(store.ErrAuthFailed, http.StatusUnauthorized, "authentication failed").
		WithMapping(catalogusecase.ErrConfirmationRequired, http.StatusPreconditionRequired, "confirmation required").
		WithMapping(catalog.ErrFetchFailed, http.StatusBadGateway, "store sync failed").
		WithMapping(catalog.ErrSeedFailed, http.StatusBadGateway, "store seed failed").
		WithMapping(catalog.ErrWriteFailed, http.StatusBadGateway, "store write failed").
		WithDefault(http.StatusInternalServerError, "internal server error")

	return &Handler{app: a, hub: hub, validator: validator, errors: mapper}
}

// Register mounts every route on the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/session", h.currentSession)
	api.POST("/session/signin", h.signIn)
	api.POST("/session/signup", h.signUp)
	api.POST("/session/signout", h.signOut)

	api.GET("/menu", h.listMenu)
	api.GET("/menu/:id", h.getMenuItem)
	api.POST("/menu", h.saveMenuItem)
	api.DELETE("/menu/:id", h.deleteMenuItem)
	api.POST("/menu/enhance", h.enhanceMenu)

	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.updateProfile)
	api.GET("/theme", h.getTheme)

	api.GET("/cart", h.getCart)
	api.POST("/cart/items", h.adjustCart)
	api.DELETE("/cart", h.clearCart)

	api.POST("/orders", h.checkout)
	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)
	api.GET("/orders/:id/receipt", h.getReceipt)
	api.GET("/orders/:id/share", h.getShareLink)

	e.GET("/ws/backoffice", h.backofficeSocket)
}

func (h *Handler) fail(c echo.Context, err error) error {
	info := h.errors.Map(err)
	return c.JSON(info.Status, map[string]string{"error": info.Message, "detail": err.Error()})
}
