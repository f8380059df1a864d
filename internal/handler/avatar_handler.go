// Package handler provides the HTTP handlers for avatar object storage.
package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/pkg/req"
	"rtchat/internal/pkg/resp"
)

const (
	// MaxAvatarSize is the maximum allowed avatar file size (2 MB).
	MaxAvatarSize int64 = 2 << 20

	// PresignedURLDuration is how long a presigned URL stays valid.
	PresignedURLDuration = 5 * time.Minute

	// avatarKeyPrefix namespaces avatar objects in the bucket.
	avatarKeyPrefix = "avatars/"
)

// allowedAvatarMIME defines the permitted avatar MIME types by extension.
var allowedAvatarMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// PresignAvatarInput is the request body for the avatar upload presign endpoint.
type PresignAvatarInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatarUpload validates the avatar metadata and returns a
// presigned PUT URL plus the object key the user record should point at.
func HandlePresignAvatarUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PresignAvatarInput
		if cerr := req.BindJSON(w, r, &input); cerr != nil {
			resp.RespondError(w, r, cerr)
			return
		}

		if input.FileSize <= 0 || input.FileSize > MaxAvatarSize {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarTooLarge))
			return
		}

		ext := strings.ToLower(filepath.Ext(input.FileName))
		expectedMIME, ok := allowedAvatarMIME[ext]
		if !ok || expectedMIME != input.MimeType {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarTypeInvalid))
			return
		}

		key := avatarKeyPrefix + uuid.NewString() + ext

		url, err := deps.Storage.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, PresignedURLDuration)
		if err != nil {
			logx.Error(err, "Failed to presign avatar upload", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"uploadUrl": url,
			"key":       key,
		})
	}
}

// HandleDeleteAvatar removes a replaced avatar object from the bucket.
func HandleDeleteAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" || !strings.HasPrefix(key, avatarKeyPrefix) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Storage.Delete(r.Context(), key); err != nil {
			logx.Error(err, "Failed to delete avatar", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"key": key,
		})
	}
}

// HandlePresignAvatarDownload returns a presigned GET URL for an avatar key.
func HandlePresignAvatarDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" || !strings.HasPrefix(key, avatarKeyPrefix) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.Storage.PresignDownload(r.Context(), key, PresignedURLDuration)
		if err != nil {
			logx.Error(err, "Failed to presign avatar download", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"downloadUrl": url,
		})
	}
}
