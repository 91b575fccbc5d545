package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultTokenTTL      = time.Hour
	defaultLookupTimeout = 3 * time.Second
)

// Session is the result of a successful credential authentication.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Service orchestrates credential verification and token issuance. It holds
// no mutable state beyond the read-only codec key, so it is safe for
// concurrent use across requests.
type Service struct {
	store         CredentialStore
	codec         *Codec
	tokenTTL      time.Duration
	lookupTimeout time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithTokenTTL configures the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithLookupTimeout bounds individual credential store lookups.
func WithLookupTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// NewService constructs a Service around a credential store and token codec.
func NewService(store CredentialStore, codec *Codec, opts ...ServiceOption) *Service {
	s := &Service{
		store:         store,
		codec:         codec,
		tokenTTL:      defaultTokenTTL,
		lookupTimeout: defaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies credentials against the store and issues a token.
// Unknown identifiers report ErrNotFound and bad passwords report
// ErrInvalidCredentials; both must surface externally as the same generic
// failure. Deactivated principals cannot authenticate.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	principal, err := s.lookup(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if !principal.Active {
		return Session{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(principal.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.codec.Issue(principal.Email, principal.Role, s.tokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Email: principal.Email, ExpiresAt: expiresAt}, nil
}

// AuthenticateToken validates token and reconstructs the caller's identity
// from a fresh store lookup, so role changes and deactivation take effect
// immediately rather than at token expiry.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (Principal, error) {
	claims, err := s.codec.Parse(token)
	if err != nil {
		return Principal{}, err
	}

	principal, err := s.lookup(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrInvalidToken
		}
		return Principal{}, err
	}
	if !principal.Active {
		return Principal{}, ErrInvalidToken
	}
	return *principal, nil
}

func (s *Service) lookup(ctx context.Context, email string) (*Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	principal, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return principal, nil
}
