package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargenet/backend/services/platform-service/internal/models"
)

// ErrChargerNotFound represents missing charger rows.
var ErrChargerNotFound = errors.New("charger not found")

// ChargerRepository handles CRUD for the chargers table.
type ChargerRepository struct {
	db *sql.DB
}

// NewChargerRepository returns repository instance.
func NewChargerRepository(db *sql.DB) *ChargerRepository {
	return &ChargerRepository{db: db}
}

// Create inserts a new charger.
func (r *ChargerRepository) Create(ctx context.Context, charger *models.Charger) error {
	const query = `
		INSERT INTO chargers (station_id, charger_type, status, price_per_kwh)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		charger.StationID,
		charger.ChargerType,
		charger.Status,
		charger.PricePerKwh,
	).Scan(&charger.ID, &charger.CreatedAt)
}

// GetByID fetches a charger by id.
func (r *ChargerRepository) GetByID(ctx context.Context, id int64) (*models.Charger, error) {
	const query = `
		SELECT id, station_id, charger_type, status, price_per_kwh, last_maintenance, COALESCE(maintenance_note, ''), created_at
		FROM chargers
		WHERE id = $1
		LIMIT 1
	`
	var charger models.Charger
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&charger.ID,
		&charger.StationID,
		&charger.ChargerType,
		&charger.Status,
		&charger.PricePerKwh,
		&charger.LastMaintenance,
		&charger.MaintenanceNote,
		&charger.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChargerNotFound
		}
		return nil, err
	}
	return &charger, nil
}

// ListByStation returns chargers attached to a station.
func (r *ChargerRepository) ListByStation(ctx context.Context, stationID int64) ([]models.Charger, error) {
	const query = `
		SELECT id, station_id, charger_type, status, price_per_kwh, last_maintenance, COALESCE(maintenance_note, ''), created_at
		FROM chargers
		WHERE station_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, stationID)
}

// ListByStatus returns chargers in the given status.
func (r *ChargerRepository) ListByStatus(ctx context.Context, status models.ChargerStatus) ([]models.Charger, error) {
	const query = `
		SELECT id, station_id, charger_type, status, price_per_kwh, last_maintenance, COALESCE(maintenance_note, ''), created_at
		FROM chargers
		WHERE status = $1
		ORDER BY id
	`
	return r.list(ctx, query, status)
}

// UpdateStatus transitions a charger's status. A maintenance note and
// timestamp are recorded when the charger enters UNDER_MAINTENANCE.
func (r *ChargerRepository) UpdateStatus(ctx context.Context, id int64, status models.ChargerStatus, note string, maintenanceAt *time.Time) error {
	const query = `
		UPDATE chargers
		SET status = $2,
		    maintenance_note = $3,
		    last_maintenance = COALESCE($4, last_maintenance)
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status, nullableString(note), maintenanceAt)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrChargerNotFound)
}

// Delete removes a charger by id.
func (r *ChargerRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM chargers WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrChargerNotFound)
}

// CountByStatus returns the network-wide charger count in the given status.
func (r *ChargerRepository) CountByStatus(ctx context.Context, status models.ChargerStatus) (int64, error) {
	const query = `SELECT COUNT(*) FROM chargers WHERE status = $1`
	var count int64
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChargerRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Charger, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []models.Charger
	for rows.Next() {
		var charger models.Charger
		if err := rows.Scan(
			&charger.ID,
			&charger.StationID,
			&charger.ChargerType,
			&charger.Status,
			&charger.PricePerKwh,
			&charger.LastMaintenance,
			&charger.MaintenanceNote,
			&charger.CreatedAt,
		); err != nil {
			return nil, err
		}
		chargers = append(chargers, charger)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chargers, nil
}
