package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordProducesUniqueSaltedHashes(t *testing.T) {
	h1, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Fatal("identical passwords produced identical hashes; salt missing")
	}
	if strings.Contains(h1, "secret1") {
		t.Fatal("hash leaks raw password")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "secret1"); err != nil {
		t.Fatalf("expected matching password to verify: %v", err)
	}
	if err := VerifyPassword(hash, "secret2"); err == nil {
		t.Fatal("expected mismatch to fail")
	}
	if err := VerifyPassword("", "secret1"); err == nil {
		t.Fatal("expected empty hash to fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", 4); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestHashPasswordClampsOutOfRangeCost(t *testing.T) {
	hash, err := HashPassword("secret1", 99)
	if err != nil {
		t.Fatalf("HashPassword with out-of-range cost: %v", err)
	}
	if err := VerifyPassword(hash, "secret1"); err != nil {
		t.Fatalf("verify after clamp: %v", err)
	}
}
