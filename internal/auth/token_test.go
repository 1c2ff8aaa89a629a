package auth

import (
	"testing"

	"github.com/spec-kit/store-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)

	storeID := "store-1"
	user := &domain.User{ID: "u1", Role: domain.RoleManager, StoreID: &storeID}

	token, exp, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if exp.IsZero() {
		t.Fatal("expected an expiry")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("subject %q, want u1", claims.UserID)
	}
	if claims.Role != domain.RoleManager {
		t.Errorf("role %q, want manager", claims.Role)
	}
	if claims.StoreID == nil || *claims.StoreID != "store-1" {
		t.Errorf("store claim %v, want store-1", claims.StoreID)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleManager})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)
	if _, err := tm.ParseToken("not-a-jwt"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}
