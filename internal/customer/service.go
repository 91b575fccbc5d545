package customer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"clientdesk.org/internal/auth"
)

// DefaultRole is assigned to self-registered customers.
const DefaultRole = "admin"

var (
	fullNameRe = regexp.MustCompile(`^.{2,50}$`)
	emailRe    = regexp.MustCompile(`^[^@]+@[^@]+$`)
	phoneRe    = regexp.MustCompile(`^\+[0-9]{5,13}$`)
)

// Service implements customer CRUD on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in, hashes the password and inserts a new active
// customer. A taken email reports ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, in NewCustomerInput) (Customer, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return Customer{}, fmt.Errorf("%w: full name, email and password are required", ErrInvalidInput)
	}
	if err := validateFields(in.FullName, in.Email, in.Phone); err != nil {
		return Customer{}, err
	}

	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return Customer{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Customer{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Customer{}, err
	}

	now := s.now().UnixMilli()
	c := Customer{
		Created:      now,
		Updated:      now,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         DefaultRole,
		Active:       true,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, &c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Get returns the customer with the given id. Soft-deleted customers report
// ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	if !c.Active {
		return Customer{}, ErrNotFound
	}
	return *c, nil
}

// List returns one page of active customers matching filter.
func (s *Service) List(ctx context.Context, filter Filter, page Page) (Result, error) {
	page = page.normalize()
	items, total, err := s.store.List(ctx, filter, page)
	if err != nil {
		return Result{}, err
	}
	pages := int(total) / page.Size
	if int(total)%page.Size != 0 {
		pages++
	}
	return Result{Items: items, TotalItems: total, TotalPages: pages}, nil
}

// Update merges patch into the customer with the given id. When partial is
// false (PUT semantics) every updatable field must be present; when true
// (PATCH semantics) absent fields are left unchanged.
func (s *Service) Update(ctx context.Context, id int64, patch Patch, partial bool) (Customer, error) {
	if !partial && !patch.Complete() {
		return Customer{}, fmt.Errorf("%w: all updatable fields are required for a full update", ErrInvalidInput)
	}
	if err := validatePatch(patch); err != nil {
		return Customer{}, err
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return Customer{}, err
	}

	patch.apply(&c)
	c.Updated = s.now().UnixMilli()
	if err := s.store.Update(ctx, &c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Delete soft-deletes the customer with the given id. The row is kept so
// the email stays reserved and audits keep their subject.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}
	return s.store.SetActive(ctx, id, false)
}

func validateFields(fullName, email, phone string) error {
	if fullName != "" && !fullNameRe.MatchString(fullName) {
		return fmt.Errorf("%w: full name must be 2-50 characters", ErrInvalidInput)
	}
	if email != "" {
		if len(email) < 2 || len(email) > 100 || !emailRe.MatchString(email) {
			return fmt.Errorf("%w: malformed email", ErrInvalidInput)
		}
	}
	if phone != "" && !phoneRe.MatchString(phone) {
		return fmt.Errorf("%w: phone must be + followed by 5-13 digits", ErrInvalidInput)
	}
	return nil
}

func validatePatch(p Patch) error {
	var fullName, phone string
	if p.FullName != nil {
		fullName = strings.TrimSpace(*p.FullName)
		if fullName == "" {
			return fmt.Errorf("%w: full name must not be blank", ErrInvalidInput)
		}
		*p.FullName = fullName
	}
	if p.Phone != nil {
		phone = strings.TrimSpace(*p.Phone)
		if phone == "" {
			return fmt.Errorf("%w: phone must not be blank", ErrInvalidInput)
		}
		*p.Phone = phone
	}
	return validateFields(fullName, "", phone)
}
