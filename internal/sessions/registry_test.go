package sessions

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
	if err := conn.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func TestBeginClaimsFreshSession(t *testing.T) {
	reg := NewRegistry(openTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	if err := reg.Begin(ctx, userID, "device-a"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	state, err := reg.Validate(ctx, userID, "device-a")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if state != StateActiveMatch {
		t.Fatalf("expected ActiveMatch, got %v", state)
	}
}

func TestBeginConflictsWithOtherDevice(t *testing.T) {
	reg := NewRegistry(openTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	if err := reg.Begin(ctx, userID, "device-a"); err != nil {
		t.Fatalf("Begin device-a: %v", err)
	}

	err := reg.Begin(ctx, userID, "device-b")
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeSessionConflict {
		t.Fatalf("expected SESSION_CONFLICT, got %v", err)
	}

	// loser's claim must not disturb the holder
	state, err := reg.Validate(ctx, userID, "device-a")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if state != StateActiveMatch {
		t.Fatalf("holder lost its session: %v", state)
	}
	state, err = reg.Validate(ctx, userID, "device-b")
	if err != nil {
		t.Fatalf("Validate loser: %v", err)
	}
	if state != StateActiveOtherDevice {
		t.Fatalf("expected ActiveOtherDevice for loser, got %v", state)
	}
}

func TestSameDeviceReclaimsItsSession(t *testing.T) {
	reg := NewRegistry(openTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	if err := reg.Begin(ctx, userID, "device-a"); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if err := reg.Begin(ctx, userID, "device-a"); err != nil {
		t.Fatalf("re-Begin by the same device must succeed: %v", err)
	}
}

func TestEndReleasesOnlyForHolder(t *testing.T) {
	reg := NewRegistry(openTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	if err := reg.Begin(ctx, userID, "device-a"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// stale device cannot release someone else's session
	if err := reg.End(ctx, userID, "device-b"); err != nil {
		t.Fatalf("End by non-holder: %v", err)
	}
	state, _ := reg.Validate(ctx, userID, "device-a")
	if state != StateActiveMatch {
		t.Fatalf("non-holder End evicted the holder")
	}

	if err := reg.End(ctx, userID, "device-a"); err != nil {
		t.Fatalf("End by holder: %v", err)
	}
	state, _ = reg.Validate(ctx, userID, "device-a")
	if state != StateNone {
		t.Fatalf("expected None after End, got %v", state)
	}

	// session is free again, another device may claim it
	if err := reg.Begin(ctx, userID, "device-b"); err != nil {
		t.Fatalf("Begin after release: %v", err)
	}
}

func TestForceEndEvictsAnyDevice(t *testing.T) {
	reg := NewRegistry(openTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	if err := reg.Begin(ctx, userID, "device-a"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := reg.ForceEnd(ctx, userID); err != nil {
		t.Fatalf("ForceEnd: %v", err)
	}
	state, _ := reg.Validate(ctx, userID, "device-a")
	if state != StateNone {
		t.Fatalf("expected None after ForceEnd, got %v", state)
	}
}

func TestValidateUnknownUser(t *testing.T) {
	reg := NewRegistry(openTestDB(t))

	state, err := reg.Validate(context.Background(), uuid.New(), "device-a")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if state != StateNone {
		t.Fatalf("expected None for unknown user, got %v", state)
	}
}

func TestBeginRejectsEmptyDevice(t *testing.T) {
	reg := NewRegistry(openTestDB(t))

	err := reg.Begin(context.Background(), uuid.New(), "")
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
