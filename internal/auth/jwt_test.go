package auth

import (
	"testing"

	"stockroom/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken(models.User{ID: 7, Username: "admin", Role: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, claims, err := TokenClaims("Bearer " + token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub, _ := claims["sub"].(float64); int(sub) != 7 {
		t.Errorf("expected sub 7, got %v", claims["sub"])
	}
	if claims["username"] != "admin" {
		t.Errorf("expected username admin, got %v", claims["username"])
	}
	if claims["role"] != "admin" {
		t.Errorf("expected role admin, got %v", claims["role"])
	}
}

func TestTokenClaimsRejectsBadHeaders(t *testing.T) {
	SetSecret("test-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"missing scheme", "sometoken"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := TokenClaims(tt.header); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestTokenRejectedAfterSecretChange(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken(models.User{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	SetSecret("second-secret")
	t.Cleanup(func() { SetSecret("test-secret") })

	if _, _, err := TokenClaims("Bearer " + token); err == nil {
		t.Error("expected token signed with old secret to be rejected")
	}
}
