package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/agendahub/agenda-backend/api/responses"
	"github.com/agendahub/agenda-backend/pkg/config"
	pkgerrors "github.com/agendahub/agenda-backend/pkg/errors"
	"github.com/agendahub/agenda-backend/pkg/logger"
	"github.com/agendahub/agenda-backend/pkg/redis"
)

type rateLimiterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AuthRateLimit throttles the login surface with fixed windows per client IP
// and per email hash. Emails never hit Redis in the clear.
func AuthRateLimit(cfg config.AuthRateLimitConfig, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.LoginWindow <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cfg.LoginIPLimit > 0 {
				ip := clientIP(r)
				count, err := store.Incr(ctx, redis.LoginAttemptKey("ip", ip), cfg.LoginWindow)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				if count > int64(cfg.LoginIPLimit) {
					respondRateLimited(ctx, logg, w, "ip", count)
					return
				}
			}

			if cfg.LoginEmailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := normalizeEmail(extractEmail(body)); email != "" {
					count, err := store.Incr(ctx, redis.LoginAttemptKey("email", hashValue(email)), cfg.LoginWindow)
					if err != nil {
						responses.WriteError(ctx, logg, w, err)
						return
					}
					if count > int64(cfg.LoginEmailLimit) {
						respondRateLimited(ctx, logg, w, "email", count)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, scope string, count int64) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{"scope": scope, "attempts": count})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts"))
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
