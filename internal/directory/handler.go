package directory

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ehr/hms/internal/domain/staff"
	"github.com/ehr/hms/pkg/result"
)

// Lookup loads one staff member for the toggle dialog.
type Lookup interface {
	Get(ctx context.Context, id uuid.UUID) (*staff.Staff, error)
}

type Handler struct {
	src    Source
	lookup Lookup
}

func NewHandler(src Source, lookup Lookup) *Handler {
	return &Handler{src: src, lookup: lookup}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/staff/directory", h.View)
	api.POST("/staff/:id/toggle-status", h.ToggleStatus)
}

func (h *Handler) View(c echo.Context) error {
	req := Request{Filter: staff.FilterFromContext(c)}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
		}
		req.Page = n
	}
	if v := c.QueryParam("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page_size must be an integer")
		}
		req.PageSize = n
	}

	view, err := Build(c.Request().Context(), h.src, req)
	switch {
	case errors.Is(err, ErrInvalidPageSize), errors.Is(err, staff.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ToggleStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	member, err := h.lookup.Get(ctx, id)
	if err != nil {
		return result.JSON(c, http.StatusOK, result.Fail(err))
	}
	dialog, err := OpenToggle(h.src, member)
	if err != nil {
		return result.JSON(c, http.StatusOK, result.Fail(err))
	}
	res, err := dialog.Confirm(ctx)
	if err != nil {
		return result.JSON(c, http.StatusOK, result.Fail(err))
	}
	return result.JSON(c, http.StatusOK, result.OK(res))
}
