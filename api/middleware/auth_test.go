package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/agendahub/agenda-backend/internal/sessions"
	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/enums"
	pkgerrors "github.com/agendahub/agenda-backend/pkg/errors"
)

type stubRegistry struct {
	state sessions.State
	err   error
}

func (s *stubRegistry) Validate(ctx context.Context, userID uuid.UUID, deviceID string) (sessions.State, error) {
	return s.state, s.err
}

func testTokens() *pkgauth.TokenManager {
	return pkgauth.NewTokenManager(config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "agenda-test",
		ExpirationMinutes: 15,
	})
}

func passthrough(t *testing.T, claimsSeen **pkgauth.Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*claimsSeen = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return payload.Error.Code
}

func TestAuthSeedsClaims(t *testing.T) {
	tokens := testTokens()
	userID := uuid.New()
	token, _, err := tokens.Mint(userID, userID, enums.RoleAdmin, "device-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	var seen *pkgauth.Claims
	handler := Auth(tokens, &stubRegistry{state: sessions.StateActiveMatch}, nil)(passthrough(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.UserID != userID || seen.DeviceID != "device-1" {
		t.Fatalf("claims not seeded: %+v", seen)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	var seen *pkgauth.Claims
	handler := Auth(testTokens(), &stubRegistry{state: sessions.StateActiveMatch}, nil)(passthrough(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	var seen *pkgauth.Claims
	handler := Auth(testTokens(), &stubRegistry{state: sessions.StateActiveMatch}, nil)(passthrough(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthSessionTakeoverReturnsConflict(t *testing.T) {
	tokens := testTokens()
	userID := uuid.New()
	token, _, err := tokens.Mint(userID, userID, enums.RoleAdmin, "old-device")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	var seen *pkgauth.Claims
	handler := Auth(tokens, &stubRegistry{state: sessions.StateActiveOtherDevice}, nil)(passthrough(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec.Body.Bytes()); code != string(pkgerrors.CodeSessionConflict) {
		t.Fatalf("unexpected code: %s", code)
	}
	if seen != nil {
		t.Fatal("handler should not run after takeover")
	}
}

func TestAuthNoSessionReturnsUnauthorized(t *testing.T) {
	tokens := testTokens()
	userID := uuid.New()
	token, _, err := tokens.Mint(userID, userID, enums.RoleAdmin, "device-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	var seen *pkgauth.Claims
	handler := Auth(tokens, &stubRegistry{state: sessions.StateNone}, nil)(passthrough(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
