package forms

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
	g.GET("/forms", h.ListDefinitions)
	g.POST("/visits/:id/forms/:formCode", h.CreateOrGetDraft)
	g.GET("/visits/:id/submissions", h.ListByVisit)
	g.GET("/submissions/:id", h.GetSubmission)
	g.PUT("/submissions/:id", h.Submit)
	g.POST("/submissions/:id/approve", h.Approve)
}

func (h *Handler) ListDefinitions(c echo.Context) error {
	defs, err := h.svc.ListDefinitions(c.Request().Context())
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, defs)
}

func (h *Handler) CreateOrGetDraft(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	sub, err := h.svc.CreateOrGetDraft(c.Request().Context(), visitID, c.Param("formCode"), actor)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *Handler) ListByVisit(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	subs, err := h.svc.ListByVisit(c.Request().Context(), visitID)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, subs)
}

func (h *Handler) GetSubmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid submission id")
	}
	sub, err := h.svc.GetSubmission(c.Request().Context(), id)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) Submit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid submission id")
	}
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	sub, err := h.svc.Submit(c.Request().Context(), id, req, actor)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) Approve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid submission id")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	sub, err := h.svc.Approve(c.Request().Context(), id, actor)
	if err != nil {
		return errs.JSON(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}
