package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agendahub/agenda-backend/internal/accessrequests"
	"github.com/agendahub/agenda-backend/internal/aggregate"
	"github.com/agendahub/agenda-backend/internal/appointments"
	authsvc "github.com/agendahub/agenda-backend/internal/auth"
	"github.com/agendahub/agenda-backend/internal/authz"
	"github.com/agendahub/agenda-backend/internal/catalog"
	"github.com/agendahub/agenda-backend/internal/clients"
	"github.com/agendahub/agenda-backend/internal/dashboard"
	"github.com/agendahub/agenda-backend/internal/identity"
	"github.com/agendahub/agenda-backend/internal/members"
	"github.com/agendahub/agenda-backend/internal/professionals"
	"github.com/agendahub/agenda-backend/internal/sessions"
	"github.com/agendahub/agenda-backend/internal/users"
	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	"github.com/agendahub/agenda-backend/pkg/auth/session"
	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/logger"
	"github.com/agendahub/agenda-backend/pkg/security"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type fakeRefreshStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{data: map[string]string{}}
}

func (s *fakeRefreshStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *fakeRefreshStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *fakeRefreshStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Credential{},
		&models.Profile{},
		&models.Session{},
		&models.Client{},
		&models.Professional{},
		&models.ServiceOffering{},
		&models.Appointment{},
		&models.Member{},
		&models.AccessRequest{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestRouter(t *testing.T, conn *gorm.DB) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})
	tokens := pkgauth.NewTokenManager(config.JWTConfig{
		Secret:            "routes-test-secret",
		Issuer:            "agenda-test",
		ExpirationMinutes: 15,
	})
	registry := sessions.NewRegistry(conn)
	profiles := users.NewRepository(conn)

	auth, err := authsvc.NewService(authsvc.ServiceParams{
		Credentials:    identity.NewRepository(conn),
		Resolver:       authz.NewResolver(profiles),
		Registry:       registry,
		RefreshManager: session.NewManager(newFakeRefreshStore(), time.Hour),
		Tokens:         tokens,
	})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	return NewRouter(Deps{
		Config:   &config.Config{},
		Logger:   logg,
		DB:       stubPinger{},
		Tokens:   tokens,
		Sessions: registry,

		Auth:           auth,
		Profiles:       profiles,
		Clients:        clients.NewService(conn),
		Professionals:  professionals.NewService(conn),
		Catalog:        catalog.NewService(conn),
		Appointments:   appointments.NewService(conn),
		Members:        members.NewService(conn, testPasswordCfg),
		Aggregate:      aggregate.NewService(conn, logg),
		Dashboard:      dashboard.NewService(conn, logg),
		AccessRequests: accessrequests.NewService(conn),
	})
}

func seedAdmin(t *testing.T, conn *gorm.DB, email, password string) uuid.UUID {
	t.Helper()

	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cred := models.Credential{ID: uuid.New(), Email: email, PasswordHash: hash, DisplayName: "Admin"}
	if err := conn.Create(&cred).Error; err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	profile := models.Profile{
		UserID: cred.ID,
		Nome:   "Admin",
		Email:  email,
		Role:   enums.RoleAdmin,
		Plano:  enums.PlanBasico,
	}
	if err := conn.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return cred.ID
}

func loginAs(t *testing.T, router http.Handler, email, password, deviceID string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password, "deviceId": deviceID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatal("empty access token")
	}
	return envelope.Data.AccessToken
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestRouter(t, openTestDB(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccessRequestFormIsPublic(t *testing.T) {
	router := newTestRouter(t, openTestDB(t))

	body := `{"nome":"Lia","email":"lia@example.com","empresa":"Studio Lia"}`
	req := httptest.NewRequest(http.MethodPost, "/api/public/solicitacoes", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCollectionsRequireSession(t *testing.T) {
	router := newTestRouter(t, openTestDB(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginThenListClients(t *testing.T) {
	conn := openTestDB(t)
	router := newTestRouter(t, conn)
	seedAdmin(t, conn, "dona@example.com", "segredo-forte")

	token := loginAs(t, router, "dona@example.com", "segredo-forte", "device-1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestSecondDeviceLoginEvictsNobody(t *testing.T) {
	conn := openTestDB(t)
	router := newTestRouter(t, conn)
	seedAdmin(t, conn, "dona@example.com", "segredo-forte")

	loginAs(t, router, "dona@example.com", "segredo-forte", "device-1")

	body, _ := json.Marshal(map[string]string{"email": "dona@example.com", "password": "segredo-forte", "deviceId": "device-2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestOwnerOnlyRoutesRejectStaff(t *testing.T) {
	conn := openTestDB(t)
	router := newTestRouter(t, conn)
	adminID := seedAdmin(t, conn, "dona@example.com", "segredo-forte")

	hash, err := security.HashPassword("senha-staff", testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cred := models.Credential{ID: uuid.New(), Email: "recep@example.com", PasswordHash: hash}
	if err := conn.Create(&cred).Error; err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	profile := models.Profile{
		UserID:   cred.ID,
		Nome:     "Recep",
		Email:    cred.Email,
		Role:     enums.RoleRecepcionista,
		Plano:    enums.PlanBasico,
		TenantID: &adminID,
	}
	if err := conn.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	token := loginAs(t, router, "recep@example.com", "senha-staff", "device-9")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/membros", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%s)", rec.Code, rec.Body.String())
	}

	// the staff member can still work the schedule
	req = httptest.NewRequest(http.MethodGet, "/api/v1/agendamentos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}
