package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/password"
	"chargenet/backend/services/platform-service/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register a duplicate email.
	ErrEmailInUse = errors.New("email already exists")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrClientNotFound is returned for lookups of unknown clients.
	ErrClientNotFound = errors.New("client not found")
	// ErrInvalidRole is returned for unknown role values.
	ErrInvalidRole = errors.New("invalid role")
)

// ClientRepository defines storage contract used by the accounts service.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	UpdateRole(ctx context.Context, id int64, role models.Role) error
}

// SignupInput carries registration fields.
type SignupInput struct {
	Name               string
	Email              string
	Password           string
	BatteryCapacityKwh float64
	FullRangeKm        float64
}

// ProfileUpdateInput carries mutable profile fields. Empty fields are left
// untouched.
type ProfileUpdateInput struct {
	Name               string
	Email              string
	Password           string
	BatteryCapacityKwh float64
	FullRangeKm        float64
}

// AccountsService contains registration, login and profile logic.
type AccountsService struct {
	repo      ClientRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAccountsService builds AccountsService.
func NewAccountsService(repo ClientRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AccountsService {
	return &AccountsService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Signup registers a new client account with the CLIENT role.
func (s *AccountsService) Signup(ctx context.Context, input SignupInput) (*models.Client, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if input.Email == "" {
		return nil, errors.New("email is required")
	}
	if len(input.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if input.BatteryCapacityKwh <= 0 || input.FullRangeKm <= 0 {
		return nil, errors.New("battery capacity and full range must be positive")
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrClientNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:               input.Name,
		Email:              input.Email,
		PasswordHash:       hash,
		Role:               models.RoleClient,
		BatteryCapacityKwh: input.BatteryCapacityKwh,
		FullRangeKm:        input.FullRangeKm,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("client signed up", zap.Int64("client_id", client.ID), zap.String("email", client.Email))
	return client, nil
}

// Login authenticates a client and produces a JWT.
func (s *AccountsService) Login(ctx context.Context, email, plaintext string) (string, *models.Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plaintext == "" {
		return "", nil, ErrInvalidCredentials
	}

	client, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(client.PasswordHash, plaintext); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(client.ID, client.Role)
	if err != nil {
		return "", nil, err
	}

	return token, client, nil
}

// UpdateProfile modifies the profile of the client addressed by email.
func (s *AccountsService) UpdateProfile(ctx context.Context, email string, input ProfileUpdateInput) (*models.Client, error) {
	client, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		client.Name = name
	}
	if newEmail := strings.ToLower(strings.TrimSpace(input.Email)); newEmail != "" {
		client.Email = newEmail
	}
	if input.BatteryCapacityKwh > 0 {
		client.BatteryCapacityKwh = input.BatteryCapacityKwh
	}
	if input.FullRangeKm > 0 {
		client.FullRangeKm = input.FullRangeKm
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			return nil, errors.New("password must be at least 8 characters")
		}
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		client.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// ChangeRole promotes or demotes an account.
func (s *AccountsService) ChangeRole(ctx context.Context, id int64, role models.Role) (*models.Client, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("client role changed", zap.Int64("client_id", id), zap.String("role", string(role)))
	return client, nil
}

// GetByID fetches a client account.
func (s *AccountsService) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}
