package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/internal/repo"
	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// State describes what the registry knows about a user's session.
type State int

const (
	// StateNone means no active session exists for the user.
	StateNone State = iota
	// StateActiveMatch means the active session belongs to the asking device.
	StateActiveMatch
	// StateActiveOtherDevice means another device holds the active session.
	StateActiveOtherDevice
)

// Registry enforces the single-device session rule: at most one active
// session per user, claimed atomically at login. There is one row per user;
// a new login by the same device refreshes it, a login by a different device
// succeeds only when the current session is inactive.
type Registry struct {
	repo.Base
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{Base: repo.NewBase(db)}
}

// Begin claims the user's session for the given device. The claim is a
// single compare-and-set statement: the conditional upsert only lands when
// no session row exists, the existing session is inactive, or the same
// device is re-claiming its own session. Zero rows affected means another
// device holds the session.
func (r *Registry) Begin(ctx context.Context, userID uuid.UUID, deviceID string) error {
	if deviceID == "" {
		return errors.New(errors.CodeValidation, "device id is required")
	}

	res := r.DB(ctx).Exec(`
		INSERT INTO sessions (user_id, device_id, active, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET device_id = excluded.device_id,
		    active = excluded.active,
		    created_at = excluded.created_at
		WHERE sessions.active = ? OR sessions.device_id = excluded.device_id`,
		userID, deviceID, true, time.Now().UTC(), false)
	if res.Error != nil {
		return errors.Wrap(errors.CodeDependency, res.Error, "claiming session")
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.CodeSessionConflict, "another device holds the active session")
	}
	return nil
}

// End releases the session if it is still held by the given device. Ending
// a session that was already taken over by another device is a no-op: the
// old device cannot evict the new one.
func (r *Registry) End(ctx context.Context, userID uuid.UUID, deviceID string) error {
	res := r.DB(ctx).Exec(
		`UPDATE sessions SET active = ? WHERE user_id = ? AND device_id = ?`,
		false, userID, deviceID)
	if res.Error != nil {
		return errors.Wrap(errors.CodeDependency, res.Error, "releasing session")
	}
	return nil
}

// ForceEnd releases the user's session regardless of which device holds it.
func (r *Registry) ForceEnd(ctx context.Context, userID uuid.UUID) error {
	res := r.DB(ctx).Exec(`UPDATE sessions SET active = ? WHERE user_id = ?`, false, userID)
	if res.Error != nil {
		return errors.Wrap(errors.CodeDependency, res.Error, "force releasing session")
	}
	return nil
}

// Validate reports whether the given device still holds the user's session.
func (r *Registry) Validate(ctx context.Context, userID uuid.UUID, deviceID string) (State, error) {
	var row models.Session
	err := r.DB(ctx).Where("user_id = ?", userID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return StateNone, nil
	}
	if err != nil {
		return StateNone, errors.Wrap(errors.CodeDependency, err, "loading session")
	}
	if !row.Active {
		return StateNone, nil
	}
	if row.DeviceID == deviceID {
		return StateActiveMatch, nil
	}
	return StateActiveOtherDevice, nil
}
