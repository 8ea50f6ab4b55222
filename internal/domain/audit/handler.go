package audit

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shifa/clinic/internal/platform/auth"
	"github.com/shifa/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// The log is read-only over HTTP and restricted to admins.
	api.GET("/audit", h.ListEntries, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) ListEntries(c echo.Context) error {
	pg := pagination.FromContext(c)

	f := Filter{
		TableName: c.QueryParam("table"),
		RecordID:  c.QueryParam("record_id"),
		Action:    c.QueryParam("action"),
	}
	if actor := c.QueryParam("actor_id"); actor != "" {
		id, err := uuid.Parse(actor)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid actor_id")
		}
		f.ActorID = &id
	}

	entries, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, pg.Limit, pg.Offset))
}
