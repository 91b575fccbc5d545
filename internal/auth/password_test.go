package auth

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("FrSi01")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "FrSi01"); err != nil {
		t.Fatalf("VerifyPassword with matching password: %v", err)
	}
	if err := VerifyPassword(hash, "wrongpass"); err == nil {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	first, err := HashPassword("FrSi01")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("FrSi01")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes for repeated input")
	}
	if err := VerifyPassword(second, "FrSi01"); err != nil {
		t.Fatalf("second hash does not verify: %v", err)
	}
}

func TestPasswordEmptyInputs(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
	if err := VerifyPassword("", "FrSi01"); err == nil {
		t.Fatalf("expected error for empty hash")
	}
}
