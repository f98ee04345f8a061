// Package errs defines the application error codes and the CustomError type
// used for unified error reporting across REST handlers and the realtime hub.
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate exceeded the configured limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Posts, Threads, and Direct Message Errors
const (
	// ErrEmptyMessage indicates a post or reply with no text content.
	ErrEmptyMessage = 2001

	// ErrPostNotFound indicates that the referenced public post does not exist.
	ErrPostNotFound = 2002

	// ErrDMFileNotFound indicates that the requested DM history file does not exist.
	ErrDMFileNotFound = 2003

	// ErrFileSizeTooLarge indicates an uploaded image above the size limit.
	ErrFileSizeTooLarge = 2101

	// ErrFileTypeInvalid indicates an uploaded image with a disallowed type.
	ErrFileTypeInvalid = 2102
)

// 3xxx: User, Session, and Moderation Errors
const (
	// ErrUnauthorized indicates a missing or invalid session.
	ErrUnauthorized = 3001

	// ErrInvalidUsername indicates a username that fails validation.
	ErrInvalidUsername = 3002

	// ErrInvalidPassword indicates a password that fails validation.
	ErrInvalidPassword = 3003

	// ErrUserAlreadyExists indicates a signup with a taken username.
	ErrUserAlreadyExists = 3004

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3005

	// ErrUserNotFound indicates that the referenced account does not exist.
	ErrUserNotFound = 3006

	// ErrOldPasswordInvalid indicates a password change with a wrong current password.
	ErrOldPasswordInvalid = 3007

	// ErrInvalidFollowTarget indicates a follow/unfollow of self or an unknown user.
	ErrInvalidFollowTarget = 3008

	// ErrAdminRequired indicates a non-administrator hitting the admin surface.
	ErrAdminRequired = 3101

	// ErrInvalidModerationTarget indicates a ban/delete aimed at self or an unknown user.
	ErrInvalidModerationTarget = 3102

	// ErrIPBanned indicates a request from an address on the banned-IP list.
	ErrIPBanned = 3103
)

// 4xxx: Private Group Errors
const (
	// ErrGroupNotFound indicates that the referenced private group does not exist.
	ErrGroupNotFound = 4001

	// ErrGroupAccessDenied indicates a non-member touching a group resource.
	ErrGroupAccessDenied = 4002

	// ErrGroupRoleInsufficient indicates an invite/kick by a plain member.
	ErrGroupRoleInsufficient = 4003

	// ErrAlreadyMember indicates an invite of an existing member.
	ErrAlreadyMember = 4004

	// ErrNotMember indicates a kick of a user who is not a member.
	ErrNotMember = 4005

	// ErrOwnerImmune indicates a kick aimed at the group owner.
	ErrOwnerImmune = 4006

	// ErrInvalidGroupName indicates a group created with an empty name.
	ErrInvalidGroupName = 4007
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that storing an uploaded image failed.
	ErrFileStorageFailed = 5001
)
