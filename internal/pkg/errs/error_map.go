/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every
// application error code. A zero Status defaults to HTTP 200 at construction.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat and Content Business Logic Errors
	ErrTextRequired:      {Code: ErrTextRequired, Message: "Message text is required"},
	ErrTextTooLong:       {Code: ErrTextTooLong, Message: "Message too long"},
	ErrEmailRequired:     {Code: ErrEmailRequired, Message: "email is required", Status: http.StatusBadRequest},
	ErrEmailExists:       {Code: ErrEmailExists, Message: "Email already exists", Status: http.StatusConflict},
	ErrUserNotFound:      {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrAvatarTypeInvalid: {Code: ErrAvatarTypeInvalid, Message: "Unsupported avatar file type.", Status: http.StatusBadRequest},
	ErrAvatarTooLarge:    {Code: ErrAvatarTooLarge, Message: "Avatar file is too large.", Status: http.StatusBadRequest},

	// 3xxx: Authentication and Session Errors
	ErrMissingToken: {Code: ErrMissingToken, Message: "Missing bearer token", Status: http.StatusUnauthorized},
	ErrInvalidToken: {Code: ErrInvalidToken, Message: "Invalid or expired token", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:          {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreUnavailable: {Code: ErrStoreUnavailable, Message: "Service temporarily unavailable. Please try again later.", Status: http.StatusServiceUnavailable},
}
