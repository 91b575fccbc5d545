package auth

import "errors"

var (
	// ErrNotFound indicates no principal exists for the identifier. Callers
	// must surface it with the same message as ErrInvalidCredentials so the
	// API does not reveal which emails are registered.
	ErrNotFound = errors.New("auth: principal not found")

	// ErrInvalidCredentials indicates the password did not match, or the
	// principal is deactivated.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken indicates a malformed token or a signature mismatch.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired indicates an authentic token whose expiry has passed.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrStoreUnavailable indicates a transient credential store failure.
	// Never conflated with a credential failure; callers map it to a
	// retryable status.
	ErrStoreUnavailable = errors.New("auth: credential store unavailable")
)
