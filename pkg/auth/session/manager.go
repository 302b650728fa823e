package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/redis"
)

// Store is the narrow Redis surface the manager needs.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Manager keeps refresh tokens server side, keyed by the access id minted
// with the access token. Only a hash of the refresh token is stored.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Issue creates a refresh token for the given access id and persists its
// hash. The raw token is returned once and never stored.
func (m *Manager) Issue(ctx context.Context, accessID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "generating refresh token")
	}
	raw := hex.EncodeToString(buf)

	if err := m.store.Set(ctx, redis.RefreshTokenKey(accessID), hashToken(raw), m.ttl); err != nil {
		return "", err
	}
	return raw, nil
}

// Validate checks the presented refresh token against the stored hash in
// constant time. A missing entry means the token was revoked or expired.
func (m *Manager) Validate(ctx context.Context, accessID, presented string) error {
	stored, err := m.store.Get(ctx, redis.RefreshTokenKey(accessID))
	if err != nil {
		return err
	}
	if stored == "" {
		return errors.New(errors.CodeUnauthorized, "refresh token expired or revoked")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashToken(presented))) != 1 {
		return errors.New(errors.CodeUnauthorized, "refresh token mismatch")
	}
	return nil
}

// Revoke discards the refresh token for the given access id. Revoking an
// unknown id is a no-op.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	return m.store.Del(ctx, redis.RefreshTokenKey(accessID))
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
