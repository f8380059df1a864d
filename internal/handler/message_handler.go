// Package handler provides the HTTP handlers for the chat history surface.
package handler

import (
	"net/http"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/resp"
)

// RecentMessageLimit caps the history returned by the messages endpoint.
const RecentMessageLimit = 50

// HandleListMessages returns the last RecentMessageLimit messages in
// chronological order. Disconnected clients use this to catch up, since the
// broadcast layer buffers nothing for them.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := deps.Messages.Recent(r.Context(), RecentMessageLimit)
		if err != nil {
			logx.Error(err, "Failed to fetch recent messages")
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreUnavailable))
			return
		}

		resp.RespondSuccess(w, r, messages)
	}
}
