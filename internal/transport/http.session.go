package transport

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (h *Handler) currentSession(c echo.Context) error {
	session := h.app.Sessions.Current()
	if session == nil {
		return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"authenticated": true, "user": session})
}

func (h *Handler) signIn(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	session, err := h.app.Sessions.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"authenticated": true, "user": session})
}

func (h *Handler) signUp(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	session, err := h.app.Sessions.SignUp(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"authenticated": true, "user": session})
}

func (h *Handler) signOut(c echo.Context) error {
	h.app.Sessions.SignOut(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
}
