package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shifa/clinic/internal/platform/auth"
	"github.com/shifa/clinic/pkg/errs"
	"github.com/shifa/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleNurse, auth.RolePhysician))
	read.GET("/patients", h.ListPatients)
	read.GET("/patients/:ssn", h.GetPatient)

	write := api.Group("", auth.RequireRole(auth.RoleNurse))
	write.POST("/patients", h.CreatePatient)
	write.PUT("/patients/:ssn", h.UpdatePatient)
	write.DELETE("/patients/:ssn", h.DeletePatient)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.CreatePatient(c.Request().Context(), &p, actor); err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.GetPatientBySSN(c.Request().Context(), c.Param("ssn"))
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	includeInactive := c.QueryParam("include_inactive") == "true"

	patients, total, err := h.svc.ListPatients(c.Request().Context(), includeInactive, pg.Limit, pg.Offset)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	p, err := h.svc.UpdatePatient(c.Request().Context(), c.Param("ssn"), req, actor)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	hard := c.QueryParam("hard") == "true"
	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.DeletePatient(c.Request().Context(), c.Param("ssn"), hard, actor); err != nil {
		return errs.JSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
