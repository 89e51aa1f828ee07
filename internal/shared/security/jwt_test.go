package security

import "testing"

func TestAward_MissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award(1); err == nil {
		t.Fatalf("expected Award to fail with empty JWT_SECRET")
	}
}

func TestAwardParse_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award(42)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	_, claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims == nil || claims.Uid != 42 {
		t.Fatalf("expected claims.Uid==42, got=%v", claims)
	}
}
