// Package handler provides the health check endpoints.
package handler

import (
	"net/http"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/resp"
)

// HandleHealth reports process liveness and the number of connected users.
func HandleHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":         "ok",
			"connectedUsers": deps.Coordinator.ConnectedCount(),
		})
	}
}

// HandleDBHealth pings the database and reports pool statistics.
func HandleDBHealth(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Pool.Ping(r.Context()); err != nil {
			logx.Error(err, "Database health check failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreUnavailable))
			return
		}

		stat := deps.Pool.Stat()
		resp.RespondSuccess(w, r, map[string]any{
			"status":       "ok",
			"totalConns":   stat.TotalConns(),
			"idleConns":    stat.IdleConns(),
			"acquireCount": stat.AcquireCount(),
		})
	}
}
