package controllers

import (
	"context"
	"net/http"

	"github.com/agendahub/agenda-backend/api/responses"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness only.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady reports readiness: the process is up and its backing stores
// answer pings. Any unreachable dependency degrades the probe to 503.
func HealthReady(db, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "database": "ok", "redis": "ok"}
		code := http.StatusOK

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				status["status"] = "degraded"
				status["database"] = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				status["status"] = "degraded"
				status["redis"] = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}
		responses.WriteSuccessStatus(w, code, status)
	}
}
