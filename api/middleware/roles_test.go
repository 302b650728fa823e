package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	"github.com/agendahub/agenda-backend/pkg/enums"
)

func requestWithRole(role enums.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/membros", nil)
	claims := &pkgauth.Claims{UserID: uuid.New(), TenantID: uuid.New(), Role: role}
	return req.WithContext(WithClaims(req.Context(), claims))
}

func TestRequireAnyRoleAdmitsListedRole(t *testing.T) {
	handler := RequireAnyRole(nil, enums.RoleAdmin, enums.RoleAdmin2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, role := range []enums.Role{enums.RoleAdmin, enums.RoleAdmin2} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithRole(role))
		if rec.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200, got %d", role, rec.Code)
		}
	}
}

func TestRequireAnyRoleRejectsOutsider(t *testing.T) {
	handler := RequireAnyRole(nil, enums.RoleAdmin, enums.RoleAdmin2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(enums.RoleRecepcionista))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAnyRoleEmptySetAdmitsAnyValidRole(t *testing.T) {
	handler := RequireAnyRole(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(enums.RoleProfissional))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(enums.Role("intruso")))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown role, got %d", rec.Code)
	}
}

func TestRequireAnyRoleWithoutClaims(t *testing.T) {
	handler := RequireAnyRole(nil, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/membros", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
