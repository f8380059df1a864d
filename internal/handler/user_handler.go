// Package handler provides the HTTP handlers for user listing and creation.
package handler

import (
	"net/http"

	"rtchat/internal/app/db"
	"rtchat/internal/app/identity"
	"rtchat/internal/app/store"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/req"
	"rtchat/internal/pkg/resp"
)

// UserListLimit caps the user listing endpoint.
const UserListLimit = 50

// CreateUserInput is the request body accepted by the user creation endpoint.
// Absent fields default from the caller's resolved identity.
type CreateUserInput struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl"`
	Roles       []string `json:"roles"`
	Provider    string   `json:"provider"`
}

// HandleListUsers returns up to UserListLimit user records, newest first.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Users.List(r.Context(), UserListLimit)
		if err != nil {
			logx.Error(err, "Failed to fetch users")
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreUnavailable))
			return
		}

		resp.RespondSuccess(w, r, users)
	}
}

// HandleCreateUser creates a user record directly. A duplicate email responds
// with 409.
func HandleCreateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateUserInput
		if cerr := req.BindJSON(w, r, &input); cerr != nil {
			resp.RespondError(w, r, cerr)
			return
		}

		if caller, ok := identity.FromContext(r); ok {
			if input.Email == "" {
				input.Email = caller.Email
			}
			if input.DisplayName == "" {
				input.DisplayName = caller.DisplayName
			}
			if input.Provider == "" {
				input.Provider = caller.Provider
			}
		}

		if input.Email == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrEmailRequired))
			return
		}

		user, err := deps.Users.Create(r.Context(), store.CreateUserParams{
			Email:       input.Email,
			DisplayName: input.DisplayName,
			AvatarURL:   input.AvatarURL,
			Provider:    input.Provider,
			Roles:       input.Roles,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailExists))
				return
			}
			logx.Error(err, "Create user failed", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreUnavailable))
			return
		}

		resp.RespondCreated(w, r, user)
	}
}
