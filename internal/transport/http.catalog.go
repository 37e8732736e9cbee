package transport

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	catalog "bistroDesk/internal/modules/catalog/domain"
)

func (h *Handler) listMenu(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	query := c.QueryParam("q")
	items := h.app.Catalog.FilterItems(category, query)
	return c.JSON(http.StatusOK, map[string]any{
		"items":      items,
		"categories": catalog.Categories(),
		"loading":    h.app.Catalog.Loading(),
	})
}

func (h *Handler) getMenuItem(c echo.Context) error {
	item, ok := h.app.Catalog.ItemByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) saveMenuItem(c echo.Context) error {
	var item catalog.MenuItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.app.SaveItem(c.Request().Context(), item); err != nil {
		info := h.errors.Map(err)
		if info.Status == http.StatusInternalServerError {
			// Field-level failures from Validate are client errors.
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return h.fail(c, err)
	}
	return c.JSON(http.StatusAccepted, item)
}

func (h *Handler) deleteMenuItem(c echo.Context) error {
	confirmed := strings.EqualFold(c.QueryParam("confirm"), "true")
	if err := h.app.DeleteItem(c.Request().Context(), c.Param("id"), confirmed); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) enhanceMenu(c echo.Context) error {
	if err := h.app.Catalog.Enhance(c.Request().Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": h.app.Catalog.Items()})
}

func (h *Handler) getProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, h.app.Catalog.Profile())
}

func (h *Handler) updateProfile(c echo.Context) error {
	var profile catalog.Profile
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	h.app.UpdateProfile(c.Request().Context(), profile)
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) getTheme(c echo.Context) error {
	profile := h.app.Catalog.Profile()
	theme := catalog.ResolveTheme(profile)
	return c.JSON(http.StatusOK, theme)
}
