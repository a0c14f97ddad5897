package helpers

import (
	"strings"
	"testing"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret123" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
	if !CompareHashAndPassword(hash, "secret123") {
		t.Fatal("expected the original password to match")
	}
	if CompareHashAndPassword(hash, "wrong") {
		t.Fatal("expected a wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ")
	}
}
