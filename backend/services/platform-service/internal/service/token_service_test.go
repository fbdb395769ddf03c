package service

import (
	"testing"
	"time"

	"chargenet/backend/services/platform-service/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, models.RoleEmployee)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.ClientID != 42 || claims.Role != models.RoleEmployee {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(42, models.RoleClient)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure for wrong secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	// A non-positive expiry falls back to an hour, so craft expiry directly.
	svc.expiresIn = -time.Minute
	token, err := svc.GenerateToken(42, models.RoleClient)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestTokenRequiresClientID(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.GenerateToken(0, models.RoleClient); err == nil {
		t.Fatal("expected error for zero client id")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
