package application

import "errors"

// Service-level sentinels. The HTTP and WebSocket layers translate these to
// envelope statuses and error events.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account not activated")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters with an uppercase letter, a lowercase letter and a digit")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenExpired       = errors.New("token expired")
	ErrNotOwner           = errors.New("not the resource owner")
	ErrNotSubscriber      = errors.New("not a subscriber of this room")
	ErrNotAuthor          = errors.New("not the author")
	ErrInvalidID          = errors.New("invalid id")
	ErrEmptyBody          = errors.New("body must not be empty")
)
