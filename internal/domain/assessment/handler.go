package assessment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shifa/clinic/internal/platform/auth"
	"github.com/shifa/clinic/pkg/errs"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleNurse, auth.RolePhysician))
	g.GET("/submissions/:id/assessment", h.GetAssessment)
}

func (h *Handler) GetAssessment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	detail, err := h.svc.GetBySubmission(c.Request().Context(), id)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
