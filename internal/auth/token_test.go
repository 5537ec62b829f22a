package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", 60)

	tok, _, err := tm.GenerateToken("user-123", domain.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := tm.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "user-123")
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, domain.RoleUser)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tm := &TokenManager{secret: []byte("secret"), ttl: -1 * time.Second}

	tok, _, err := tm.GenerateToken("u1", domain.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := tm.ParseToken(tok); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("right-secret", 60)
	verifier := NewTokenManager("wrong-secret", 60)

	tok, _, err := issuer.GenerateToken("u2", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := verifier.ParseToken(tok); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", 60)
	if _, err := tm.ParseToken("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestGenerateToken_ExpiryMatchesTTL(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", 15)
	_, exp, err := tm.GenerateToken("u3", domain.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	want := time.Now().Add(15 * time.Minute)
	if exp.Before(want.Add(-time.Minute)) || exp.After(want.Add(time.Minute)) {
		t.Fatalf("expiry out of range: got %v want ~%v", exp, want)
	}
}
