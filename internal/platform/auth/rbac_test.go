package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func doRequest(t *testing.T, actor Actor, mw echo.MiddlewareFunc) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he.Code
		}
		t.Fatalf("unexpected error: %v", err)
	}
	return rec.Code
}

func TestRequireRole_Match(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: RoleNurse}
	if code := doRequest(t, actor, RequireRole(RoleNurse)); code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: RoleAdmin}
	if code := doRequest(t, actor, RequireRole(RolePhysician)); code != http.StatusOK {
		t.Errorf("admin should pass any role gate, got %d", code)
	}
}

func TestRequireRole_Mismatch(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: RoleNurse}
	if code := doRequest(t, actor, RequireRole(RolePhysician)); code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", code)
	}
}

func TestActorFromContext_Empty(t *testing.T) {
	actor := ActorFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	if actor.Role != "" || actor.ID != uuid.Nil {
		t.Error("expected zero actor from unauthenticated context")
	}
}

func TestHasRole(t *testing.T) {
	nurse := Actor{Role: RoleNurse}
	if !nurse.HasRole(RoleNurse, RolePhysician) {
		t.Error("nurse should match nurse")
	}
	if nurse.HasRole(RolePhysician) {
		t.Error("nurse should not match physician")
	}
	if nurse.IsAdmin() {
		t.Error("nurse is not admin")
	}
}
