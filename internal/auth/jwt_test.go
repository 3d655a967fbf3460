package auth

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a non-empty token")
	}

	userID, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user ID 42, got %d", userID)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("Expected an error for a malformed token")
	}
}

func TestValidateToken_TamperedSignature(t *testing.T) {
	token, err := GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("Expected an error for a tampered token")
	}
}
