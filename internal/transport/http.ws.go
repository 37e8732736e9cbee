package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	realtimedomain "bistroDesk/internal/modules/realtime/domain"
	realtime "bistroDesk/internal/modules/realtime/infrastructure"
	"bistroDesk/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// backofficeSocket upgrades a back-office tab onto the realtime feed. When a
// token validator is configured the tab must present the backend-issued
// access token, via query parameter or Authorization header. Topics come
// from the "topics" query parameter as a comma list; with none given the tab
// receives everything.
func (h *Handler) backofficeSocket(c echo.Context) error {
	if h.validator != nil {
		token := strings.TrimSpace(c.QueryParam("token"))
		if token == "" {
			token = auth.ExtractBearerToken(c.Request())
		}
		claims, err := h.validator.Validate(token)
		if err != nil {
			slog.Warn("ws token rejected", slog.Any("error", err))
			if errors.Is(err, auth.ErrMissingToken) {
				return echo.NewHTTPError(http.StatusBadRequest, "missing token")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		slog.Info("ws token validated", slog.String("subject", claims.RegisteredClaims.Subject))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("ws upgrade failed", slog.Any("error", err))
		return err
	}

	tabID := strings.TrimSpace(c.QueryParam("tab"))
	if tabID == "" {
		tabID = uuid.NewString()
	}

	topics := realtimedomain.Topics()
	if raw := strings.TrimSpace(c.QueryParam("topics")); raw != "" {
		topics = strings.Split(raw, ",")
	}

	client := realtime.NewClient(h.hub, conn, tabID, 8)
	h.hub.AttachClient(client, topics)

	go client.WritePump()
	go client.ReadPump()

	slog.Info("ws tab connected", slog.String("tabId", tabID), slog.Any("topics", topics))
	return nil
}
