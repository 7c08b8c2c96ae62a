package controllers

import (
	"context"
	"net/http"

	"github.com/powdercoat/erp-backend/api/responses"
	"github.com/powdercoat/erp-backend/pkg/config"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness. The database is pinged so a wedged pool shows up
// here before it shows up as failing orders.
func Health(cfg *config.Config, db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PowderCoat-Env", cfg.App.Env)
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
				return
			}
		}
		responses.WriteSuccess(w, map[string]any{"ok": true})
	}
}
