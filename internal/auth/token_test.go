package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCodecIssueAndParse(t *testing.T) {
	codec, err := NewCodec("unit-test-secret", WithCodecIssuer("test-issuer"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, expiresAt, err := codec.Issue("frank@x.com", "admin", 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	claims, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "frank@x.com" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if claims.Issuer != "test-issuer" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
	if codec.Expired(claims) {
		t.Fatalf("fresh token reported expired")
	}
}

func TestCodecRejectsTamperedSignature(t *testing.T) {
	codec, err := NewCodec("unit-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, _, err := codec.Issue("frank@x.com", "admin", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := codec.Parse(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodecRejectsForeignKey(t *testing.T) {
	issuerCodec, _ := NewCodec("secret-one")
	verifierCodec, _ := NewCodec("secret-two")

	token, _, err := issuerCodec.Issue("frank@x.com", "admin", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifierCodec.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodecClassifiesExpiry(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	codec, err := NewCodec("unit-test-secret", WithCodecClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, _, err := codec.Issue("frank@x.com", "admin", 10*time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock = base.Add(11 * time.Minute)
	if _, err := codec.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	clock = base.Add(9 * time.Minute)
	claims, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse before expiry: %v", err)
	}
	if codec.Expired(claims) {
		t.Fatalf("token reported expired before its deadline")
	}

	clock = base.Add(11 * time.Minute)
	if !codec.Expired(claims) {
		t.Fatalf("token not reported expired after its deadline")
	}
}

func TestCodecRejectsGarbage(t *testing.T) {
	codec, err := NewCodec("unit-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	for _, token := range []string{"", "   ", "abc", "a.b", "a.b.c.d", "not-a-jwt-at-all"} {
		if _, err := codec.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Parse(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec("   "); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

func TestCodecIssueValidation(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")
	if _, _, err := codec.Issue("", "admin", time.Minute); err == nil {
		t.Fatalf("expected error for empty subject")
	}
	if _, _, err := codec.Issue("frank@x.com", "admin", 0); err == nil {
		t.Fatalf("expected error for non-positive ttl")
	}
}
