package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status falls back to http.StatusOK in NewError.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process submitted data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Posts, Threads, and Direct Message Errors
	ErrEmptyMessage:     {Code: ErrEmptyMessage, Message: "Message required.", Status: http.StatusBadRequest},
	ErrPostNotFound:     {Code: ErrPostNotFound, Message: "Post not found.", Status: http.StatusNotFound},
	ErrDMFileNotFound:   {Code: ErrDMFileNotFound, Message: "DM file not found.", Status: http.StatusNotFound},
	ErrFileSizeTooLarge: {Code: ErrFileSizeTooLarge, Message: "Image is too large.", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:  {Code: ErrFileTypeInvalid, Message: "Image type is not allowed.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Moderation Errors
	ErrUnauthorized:            {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidUsername:         {Code: ErrInvalidUsername, Message: "Invalid username.", Status: http.StatusBadRequest},
	ErrInvalidPassword:         {Code: ErrInvalidPassword, Message: "Invalid password.", Status: http.StatusBadRequest},
	ErrUserAlreadyExists:       {Code: ErrUserAlreadyExists, Message: "Username already taken.", Status: http.StatusBadRequest},
	ErrInvalidCredentials:      {Code: ErrInvalidCredentials, Message: "Incorrect username or password.", Status: http.StatusBadRequest},
	ErrUserNotFound:            {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrOldPasswordInvalid:      {Code: ErrOldPasswordInvalid, Message: "Current password is incorrect.", Status: http.StatusBadRequest},
	ErrInvalidFollowTarget:     {Code: ErrInvalidFollowTarget, Message: "Invalid follow attempt.", Status: http.StatusBadRequest},
	ErrAdminRequired:           {Code: ErrAdminRequired, Message: "Administrator access required.", Status: http.StatusForbidden},
	ErrInvalidModerationTarget: {Code: ErrInvalidModerationTarget, Message: "Invalid moderation target.", Status: http.StatusBadRequest},
	ErrIPBanned:                {Code: ErrIPBanned, Message: "Access denied.", Status: http.StatusForbidden},

	// 4xxx: Private Group Errors
	ErrGroupNotFound:         {Code: ErrGroupNotFound, Message: "Group not found.", Status: http.StatusNotFound},
	ErrGroupAccessDenied:     {Code: ErrGroupAccessDenied, Message: "No access to this group.", Status: http.StatusForbidden},
	ErrGroupRoleInsufficient: {Code: ErrGroupRoleInsufficient, Message: "No permission for this group action.", Status: http.StatusForbidden},
	ErrAlreadyMember:         {Code: ErrAlreadyMember, Message: "Already a member.", Status: http.StatusBadRequest},
	ErrNotMember:             {Code: ErrNotMember, Message: "Not a member.", Status: http.StatusBadRequest},
	ErrOwnerImmune:           {Code: ErrOwnerImmune, Message: "The group owner cannot be kicked.", Status: http.StatusForbidden},
	ErrInvalidGroupName:      {Code: ErrInvalidGroupName, Message: "Invalid group name.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "Image upload failed. Please try again.", Status: http.StatusInternalServerError},
}
