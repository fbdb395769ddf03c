package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"chargenet/backend/services/platform-service/internal/models"
)

// ErrClientNotFound represents missing client rows.
var ErrClientNotFound = errors.New("client not found")

// ClientRepository handles CRUD for the clients table.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository returns repository instance.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a new client.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	const query = `
		INSERT INTO clients (name, email, password_hash, role, battery_capacity_kwh, full_range_km)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		client.Name,
		client.Email,
		client.PasswordHash,
		client.Role,
		client.BatteryCapacityKwh,
		client.FullRangeKm,
	).Scan(&client.ID, &client.CreatedAt)
}

// GetByEmail fetches a client by email.
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	const query = `
		SELECT id, name, email, password_hash, role, battery_capacity_kwh, full_range_km, created_at
		FROM clients
		WHERE email = $1
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID fetches a client by id.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	const query = `
		SELECT id, name, email, password_hash, role, battery_capacity_kwh, full_range_km, created_at
		FROM clients
		WHERE id = $1
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// Update persists profile fields for an existing client.
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	const query = `
		UPDATE clients
		SET name = $2,
		    email = $3,
		    battery_capacity_kwh = $4,
		    full_range_km = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		strings.ToLower(strings.TrimSpace(client.Email)),
		client.BatteryCapacityKwh,
		client.FullRangeKm,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrClientNotFound)
}

// UpdateRole changes the account role.
func (r *ClientRepository) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	const query = `UPDATE clients SET role = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrClientNotFound)
}

func (r *ClientRepository) scanOne(row *sql.Row) (*models.Client, error) {
	var client models.Client
	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.PasswordHash,
		&client.Role,
		&client.BatteryCapacityKwh,
		&client.FullRangeKm,
		&client.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
