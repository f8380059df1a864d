/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Chat and Content Business Logic Errors
const (
	// ErrTextRequired indicates that a chat message was empty after trimming.
	ErrTextRequired = 2001

	// ErrTextTooLong indicates that a chat message exceeded the maximum length.
	ErrTextTooLong = 2002

	// ErrEmailRequired indicates that a user operation was attempted without an email.
	ErrEmailRequired = 2101

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = 2102

	// ErrUserNotFound indicates that the requested user record does not exist.
	ErrUserNotFound = 2103

	// ErrAvatarTypeInvalid indicates an unsupported avatar file type.
	ErrAvatarTypeInvalid = 2201

	// ErrAvatarTooLarge indicates that the avatar file exceeded the size limit.
	ErrAvatarTooLarge = 2202
)

// 3xxx: Authentication and Session Errors
const (
	// ErrMissingToken indicates that no credential token was supplied in strict mode.
	ErrMissingToken = 3001

	// ErrInvalidToken indicates that the supplied credential token is invalid or expired.
	ErrInvalidToken = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStoreUnavailable indicates that the backing message or user store is unreachable.
	ErrStoreUnavailable = 5001
)
