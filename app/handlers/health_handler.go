package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz reports whether the database answers within two seconds.
func Healthz(rnd *render.Render, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			zap.S().Warnw("Healthz: database ping failed", "error", err)
			rnd.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		rnd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
