package customer

import (
	"context"
	"errors"

	"clientdesk.org/internal/auth"
)

var _ auth.CredentialStore = (*CredentialSource)(nil)

// CredentialSource exposes the customer store as the auth subsystem's
// credential store. Every call reads the backing store afresh; inactive
// customers are returned as-is and rejected by the auth service.
type CredentialSource struct {
	store Store
}

// NewCredentialSource wraps store for use by auth.Service.
func NewCredentialSource(store Store) *CredentialSource {
	return &CredentialSource{store: store}
}

// FindByEmail implements auth.CredentialStore.
func (c *CredentialSource) FindByEmail(ctx context.Context, email string) (*auth.Principal, error) {
	cust, err := c.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &auth.Principal{
		ID:           cust.ID,
		Email:        cust.Email,
		PasswordHash: cust.PasswordHash,
		Role:         cust.Role,
		Active:       cust.Active,
	}, nil
}
