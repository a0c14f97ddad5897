package helpers

import (
	"testing"
	"time"

	"github.com/prasetyodwi/user-auth-service/internal/domain/entity"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	u := &entity.User{ID: 7, Email: "ana@x.com", Role: "user"}

	tok, exp, err := m.GenerateToken(u)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry %v", exp)
	}

	claims, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	uid, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if uid != 7 || claims.Email != "ana@x.com" || claims.Role != "user" {
		t.Fatalf("claims mismatch: uid=%d email=%q role=%q", uid, claims.Email, claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, _, err := m.GenerateToken(&entity.User{ID: 1, Email: "a@b.c", Role: "user"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.ParseToken(tok); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseTokenExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	tok, _, err := m.GenerateToken(&entity.User{ID: 1, Email: "a@b.c", Role: "user"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseToken(tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	if _, err := m.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected parse failure")
	}
}
