package customer

// Customer is the stored customer record. Created and Updated are unix
// milliseconds. A customer doubles as an authentication principal: the
// store hands Email, PasswordHash, Role and Active to the auth subsystem.
type Customer struct {
	ID           int64
	Created      int64
	Updated      int64
	FullName     string
	Email        string
	Phone        string
	Role         string
	Active       bool
	PasswordHash string
}

// NewCustomerInput carries the fields accepted at registration. Password is
// plaintext here and must never be persisted as such.
type NewCustomerInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// View is the externally visible projection of a customer.
type View struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// AsView strips internal fields (hash, flags, timestamps) from c.
func (c Customer) AsView() View {
	return View{
		ID:       c.ID,
		FullName: c.FullName,
		Email:    c.Email,
		Phone:    c.Phone,
	}
}

// Filter selects customers by partial match on the given fields. Empty
// fields match everything.
type Filter struct {
	FullName string
	Email    string
	Phone    string
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) offset() int { return p.Number * p.Size }

// Result is one page of customers together with overall totals.
type Result struct {
	Items      []Customer
	TotalItems int64
	TotalPages int
}
