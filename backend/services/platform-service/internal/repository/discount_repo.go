package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargenet/backend/services/platform-service/internal/models"
)

// ErrDiscountNotFound represents missing discount rows.
var ErrDiscountNotFound = errors.New("discount not found")

// DiscountRepository handles CRUD for the discounts table.
type DiscountRepository struct {
	db *sql.DB
}

// NewDiscountRepository returns repository instance.
func NewDiscountRepository(db *sql.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// Create inserts a new discount window.
func (r *DiscountRepository) Create(ctx context.Context, discount *models.Discount) error {
	const query = `
		INSERT INTO discounts (station_id, charger_type, day_of_week, start_hour, end_hour, discount_percent, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		discount.StationID,
		discount.ChargerType,
		discount.DayOfWeek,
		discount.StartHour,
		discount.EndHour,
		discount.DiscountPercent,
		discount.Active,
	).Scan(&discount.ID)
}

// Update replaces all mutable fields of a discount.
func (r *DiscountRepository) Update(ctx context.Context, discount *models.Discount) error {
	const query = `
		UPDATE discounts
		SET station_id = $2,
		    charger_type = $3,
		    day_of_week = $4,
		    start_hour = $5,
		    end_hour = $6,
		    discount_percent = $7,
		    active = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		discount.ID,
		discount.StationID,
		discount.ChargerType,
		discount.DayOfWeek,
		discount.StartHour,
		discount.EndHour,
		discount.DiscountPercent,
		discount.Active,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrDiscountNotFound)
}

// Delete removes a discount by id.
func (r *DiscountRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM discounts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrDiscountNotFound)
}

// GetByID fetches a discount by id.
func (r *DiscountRepository) GetByID(ctx context.Context, id int64) (*models.Discount, error) {
	const query = `
		SELECT id, station_id, charger_type, day_of_week, start_hour, end_hour, discount_percent, active
		FROM discounts
		WHERE id = $1
		LIMIT 1
	`
	var d models.Discount
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.StationID,
		&d.ChargerType,
		&d.DayOfWeek,
		&d.StartHour,
		&d.EndHour,
		&d.DiscountPercent,
		&d.Active,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all discounts.
func (r *DiscountRepository) List(ctx context.Context) ([]models.Discount, error) {
	const query = `
		SELECT id, station_id, charger_type, day_of_week, start_hour, end_hour, discount_percent, active
		FROM discounts
		ORDER BY id
	`
	return r.listQuery(ctx, query)
}

// FindActiveAt returns active discounts matching the station, charger type and
// weekly time slot.
func (r *DiscountRepository) FindActiveAt(ctx context.Context, stationID int64, chargerType models.ChargerType, dayOfWeek, hour int) ([]models.Discount, error) {
	const query = `
		SELECT id, station_id, charger_type, day_of_week, start_hour, end_hour, discount_percent, active
		FROM discounts
		WHERE station_id = $1
		  AND charger_type = $2
		  AND day_of_week = $3
		  AND start_hour <= $4
		  AND end_hour > $4
		  AND active
		ORDER BY discount_percent DESC
	`
	return r.listQuery(ctx, query, stationID, chargerType, dayOfWeek, hour)
}

func (r *DiscountRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]models.Discount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discounts []models.Discount
	for rows.Next() {
		var d models.Discount
		if err := rows.Scan(
			&d.ID,
			&d.StationID,
			&d.ChargerType,
			&d.DayOfWeek,
			&d.StartHour,
			&d.EndHour,
			&d.DiscountPercent,
			&d.Active,
		); err != nil {
			return nil, err
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return discounts, nil
}
