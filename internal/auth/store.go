package auth

import "context"

// Principal is the stored identity record used to authenticate a caller.
type Principal struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	Active       bool
}

// CredentialStore maps an identifier to its Principal. Implementations must
// return the current role and active flag on every call: results are never
// cached, so deactivation takes effect on the next token validation.
type CredentialStore interface {
	// FindByEmail returns the principal for email or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*Principal, error)
}
