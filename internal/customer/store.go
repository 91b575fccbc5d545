package customer

import "context"

// Store describes persistence operations required by the customer service.
type Store interface {
	// Create inserts c and fills in its generated ID.
	Create(ctx context.Context, c *Customer) error
	// FindByID returns the customer regardless of its active flag, or
	// ErrNotFound.
	FindByID(ctx context.Context, id int64) (*Customer, error)
	// FindByEmail returns the customer regardless of its active flag, or
	// ErrNotFound. Email is unique across active and soft-deleted rows.
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	// List returns the active customers matching filter, one page at a
	// time, along with the total number of matches.
	List(ctx context.Context, filter Filter, page Page) ([]Customer, int64, error)
	// Update persists the mutable fields of c.
	Update(ctx context.Context, c *Customer) error
	// SetActive flips the soft-delete flag.
	SetActive(ctx context.Context, id int64, active bool) error
}
