package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/password"
)

func newAccountsService(repo ClientRepository) *AccountsService {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAccountsService(repo, password.NewBcryptHasher(4), tokens, zap.NewNop())
}

func TestSignupAssignsClientRole(t *testing.T) {
	svc := newAccountsService(newMemClientRepo())

	client, err := svc.Signup(context.Background(), SignupInput{
		Name:               "Ana",
		Email:              "Ana@Example.com",
		Password:           "supersecret",
		BatteryCapacityKwh: 70,
		FullRangeKm:        350,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Role != models.RoleClient {
		t.Errorf("role = %s, want CLIENT", client.Role)
	}
	if client.Email != "ana@example.com" {
		t.Errorf("email not normalized: %s", client.Email)
	}
	if client.PasswordHash == "supersecret" || client.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newAccountsService(newMemClientRepo())
	input := SignupInput{Name: "Ana", Email: "ana@example.com", Password: "supersecret", BatteryCapacityKwh: 70, FullRangeKm: 350}

	if _, err := svc.Signup(context.Background(), input); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), input); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newAccountsService(newMemClientRepo())
	cases := []SignupInput{
		{Email: "a@b.c", Password: "supersecret", BatteryCapacityKwh: 70, FullRangeKm: 350},
		{Name: "Ana", Password: "supersecret", BatteryCapacityKwh: 70, FullRangeKm: 350},
		{Name: "Ana", Email: "a@b.c", Password: "short", BatteryCapacityKwh: 70, FullRangeKm: 350},
		{Name: "Ana", Email: "a@b.c", Password: "supersecret", FullRangeKm: 350},
		{Name: "Ana", Email: "a@b.c", Password: "supersecret", BatteryCapacityKwh: 70},
	}
	for i, input := range cases {
		if _, err := svc.Signup(context.Background(), input); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := newMemClientRepo()
	svc := newAccountsService(repo)

	if _, err := svc.Signup(context.Background(), SignupInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
		BatteryCapacityKwh: 70, FullRangeKm: 350,
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token, client, err := svc.Login(context.Background(), "ana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if client.Email != "ana@example.com" {
		t.Errorf("unexpected client %+v", client)
	}

	claims, err := svc.tokenizer.ValidateToken(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.ClientID != client.ID || claims.Role != models.RoleClient {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAccountsService(newMemClientRepo())

	if _, err := svc.Signup(context.Background(), SignupInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
		BatteryCapacityKwh: 70, FullRangeKm: 350,
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "ana@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must also yield ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newAccountsService(newMemClientRepo())

	if _, err := svc.Signup(context.Background(), SignupInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
		BatteryCapacityKwh: 70, FullRangeKm: 350,
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), "ana@example.com", ProfileUpdateInput{
		Name:               "Ana Silva",
		BatteryCapacityKwh: 82,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Ana Silva" || updated.BatteryCapacityKwh != 82 {
		t.Errorf("unexpected profile %+v", updated)
	}
	if updated.FullRangeKm != 350 {
		t.Errorf("untouched field changed: %f", updated.FullRangeKm)
	}

	if _, err := svc.UpdateProfile(context.Background(), "ghost@example.com", ProfileUpdateInput{Name: "X"}); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestChangeRole(t *testing.T) {
	svc := newAccountsService(newMemClientRepo())

	client, err := svc.Signup(context.Background(), SignupInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
		BatteryCapacityKwh: 70, FullRangeKm: 350,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	promoted, err := svc.ChangeRole(context.Background(), client.ID, models.RoleEmployee)
	if err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if promoted.Role != models.RoleEmployee {
		t.Errorf("role = %s, want EMPLOYEE", promoted.Role)
	}

	if _, err := svc.ChangeRole(context.Background(), client.ID, "SUPERUSER"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), 999, models.RoleManager); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}
