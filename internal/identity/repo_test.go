package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Credential{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func TestCreateLowercasesEmail(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	cred := &models.Credential{ID: uuid.New(), Email: "  Dona@Salao.com.br ", PasswordHash: "x"}
	if err := repo.Create(ctx, cred); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "dona@salao.com.br")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found.ID != cred.ID {
		t.Fatalf("expected %s, got %s", cred.ID, found.ID)
	}
}

func TestCreateDuplicateEmailIsConflict(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Credential{ID: uuid.New(), Email: "dona@salao.com.br", PasswordHash: "x"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	err := repo.Create(ctx, &models.Credential{ID: uuid.New(), Email: "DONA@salao.com.br", PasswordHash: "y"})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUpdateDisplayName(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	cred := &models.Credential{ID: uuid.New(), Email: "rafa@salao.com.br", PasswordHash: "x", DisplayName: "Rafa"}
	if err := repo.Create(ctx, cred); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdateDisplayName(ctx, cred.ID, "Rafaela"); err != nil {
		t.Fatalf("UpdateDisplayName: %v", err)
	}

	found, err := repo.FindByID(ctx, cred.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.DisplayName != "Rafaela" {
		t.Fatalf("expected Rafaela, got %q", found.DisplayName)
	}
}
