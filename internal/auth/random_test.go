package auth

import "testing"

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars for 32 bytes, got %d", len(token))
	}
	for _, r := range token {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("unexpected character %q in token", r)
		}
	}

	other, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == other {
		t.Fatal("two generated tokens must not collide")
	}
}

func TestGenerateSecureTokenDefaultsLength(t *testing.T) {
	token, err := GenerateSecureToken(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != DefaultTokenBytes*2 {
		t.Fatalf("expected default length %d, got %d", DefaultTokenBytes*2, len(token))
	}
}
