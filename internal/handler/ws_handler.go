/*
Package handler provides the HTTP handler for WebSocket connection upgrading
and initialization.

The auth payload travels in query parameters: a credential token under
"token", or (permissive mode) identity hints under "email", "displayName",
and "avatarUrl". Identity is resolved before the upgrade; in strict mode a
failed resolution rejects the connection at the transport layer and the
session never starts.
*/
package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rtchat/internal/app/chat"
	"rtchat/internal/app/identity"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/limiter"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that processes WebSocket
// connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		query := r.URL.Query()
		token := query.Get("token")
		hints := identity.Hints{
			Email:       query.Get("email"),
			DisplayName: query.Get("displayName"),
			AvatarURL:   query.Get("avatarUrl"),
		}

		resolved, cerr := deps.Resolver.Resolve(token, hints)
		if cerr != nil {
			logx.Warn("WebSocket connection rejected: Unauthorized.", "ip", ip)
			resp.RespondError(w, r, cerr)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := uuid.NewString()
		client := chat.NewClient(connID, conn, deps.Coordinator, resolved)

		logx.Info("WebSocket connection established",
			"conn_id", connID,
			"email", resolved.Email,
			"provider", resolved.Provider,
		)

		go client.WritePump()

		client.ReadPump()
	}
}
