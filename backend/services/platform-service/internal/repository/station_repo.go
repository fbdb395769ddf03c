package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargenet/backend/services/platform-service/internal/models"
)

// ErrStationNotFound represents missing station rows.
var ErrStationNotFound = errors.New("station not found")

// StationRepository handles CRUD for the stations table.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a new station.
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	const query = `
		INSERT INTO stations (name, address, city, latitude, longitude, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		station.Name,
		station.Address,
		station.City,
		station.Latitude,
		station.Longitude,
		nullableString(station.ImageURL),
	).Scan(&station.ID, &station.CreatedAt)
}

// ExistsAt reports whether a station already occupies the coordinate pair.
func (r *StationRepository) ExistsAt(ctx context.Context, latitude, longitude float64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM stations WHERE latitude = $1 AND longitude = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, latitude, longitude).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns all stations without chargers.
func (r *StationRepository) List(ctx context.Context) ([]models.StationSummary, error) {
	const query = `
		SELECT id, name, address, city, latitude, longitude, COALESCE(image_url, '')
		FROM stations
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows, false)
}

// GetByID fetches a station and its chargers.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	const query = `
		SELECT id, name, address, city, latitude, longitude, COALESCE(image_url, ''), created_at
		FROM stations
		WHERE id = $1
		LIMIT 1
	`
	var station models.Station
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&station.ID,
		&station.Name,
		&station.Address,
		&station.City,
		&station.Latitude,
		&station.Longitude,
		&station.ImageURL,
		&station.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	const chargersQuery = `
		SELECT id, station_id, charger_type, status, price_per_kwh, last_maintenance, COALESCE(maintenance_note, ''), created_at
		FROM chargers
		WHERE station_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, chargersQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
		station.Chargers = append(station.Chargers, charger)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &station, nil
}

// FindBySlot returns stations that offer a charger of the given type, with the
// best active discount percent for the (dayOfWeek, hour) slot when one exists.
func (r *StationRepository) FindBySlot(ctx context.Context, dayOfWeek, hour int, chargerType models.ChargerType) ([]models.StationSummary, error) {
	const query = `
		SELECT s.id, s.name, s.address, s.city, s.latitude, s.longitude, COALESCE(s.image_url, ''),
		       MAX(d.discount_percent)
		FROM stations s
		JOIN chargers c ON c.station_id = s.id AND c.charger_type = $3
		LEFT JOIN discounts d ON d.station_id = s.id
		     AND d.active
		     AND d.charger_type = $3
		     AND d.day_of_week = $1
		     AND d.start_hour <= $2
		     AND d.end_hour > $2
		GROUP BY s.id, s.name, s.address, s.city, s.latitude, s.longitude, s.image_url
		ORDER BY s.id
	`
	rows, err := r.db.QueryContext(ctx, query, dayOfWeek, hour, chargerType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows, true)
}

// Delete removes a station by id.
func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM stations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrStationNotFound)
}

func scanSummaries(rows *sql.Rows, withDiscount bool) ([]models.StationSummary, error) {
	var stations []models.StationSummary
	for rows.Next() {
		var s models.StationSummary
		dest := []interface{}{&s.ID, &s.Name, &s.Address, &s.City, &s.Latitude, &s.Longitude, &s.ImageURL}
		var discount sql.NullFloat64
		if withDiscount {
			dest = append(dest, &discount)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if withDiscount && discount.Valid {
			value := discount.Float64
			s.DiscountPercent = &value
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
