package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargenet/backend/services/platform-service/internal/models"
)

// ErrReservationNotFound represents missing reservation rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepository handles persistence of charger reservations.
type ReservationRepository struct {
	db *sql.DB
}

// NewReservationRepository returns repository instance.
func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a new reservation.
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	const query = `
		INSERT INTO reservations (client_id, charger_id, start_time, estimated_end_time, battery_level_start, estimated_kwh, estimated_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		reservation.ClientID,
		reservation.ChargerID,
		reservation.StartTime,
		reservation.EstimatedEndTime,
		reservation.BatteryLevelStart,
		reservation.EstimatedKwh,
		reservation.EstimatedCost,
		reservation.Status,
	).Scan(&reservation.ID, &reservation.CreatedAt)
}

// GetByID fetches a reservation by id.
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	const query = `
		SELECT id, client_id, charger_id, start_time, estimated_end_time, battery_level_start, estimated_kwh, estimated_cost, status, paid, created_at
		FROM reservations
		WHERE id = $1
		LIMIT 1
	`
	var res models.Reservation
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.ClientID,
		&res.ChargerID,
		&res.StartTime,
		&res.EstimatedEndTime,
		&res.BatteryLevelStart,
		&res.EstimatedKwh,
		&res.EstimatedCost,
		&res.Status,
		&res.Paid,
		&res.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ListByClient returns reservations belonging to a client, newest first.
func (r *ReservationRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Reservation, error) {
	const query = `
		SELECT id, client_id, charger_id, start_time, estimated_end_time, battery_level_start, estimated_kwh, estimated_cost, status, paid, created_at
		FROM reservations
		WHERE client_id = $1
		ORDER BY start_time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.ClientID,
			&res.ChargerID,
			&res.StartTime,
			&res.EstimatedEndTime,
			&res.BatteryLevelStart,
			&res.EstimatedKwh,
			&res.EstimatedCost,
			&res.Status,
			&res.Paid,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

// HasOverlap reports whether an active reservation on the charger intersects
// the [start, end) window.
func (r *ReservationRepository) HasOverlap(ctx context.Context, chargerID int64, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE charger_id = $1
			  AND status = 'ACTIVE'
			  AND estimated_end_time > $2
			  AND start_time < $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, chargerID, start, end).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatus transitions a reservation's lifecycle state.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	const query = `UPDATE reservations SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrReservationNotFound)
}

// MarkPaid flags a reservation as paid.
func (r *ReservationRepository) MarkPaid(ctx context.Context, id int64) error {
	const query = `UPDATE reservations SET paid = TRUE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrReservationNotFound)
}

// StationStat aggregates completed-reservation activity per station.
type StationStat struct {
	StationID   int64   `json:"stationId"`
	StationName string  `json:"stationName"`
	Sessions    int64   `json:"sessions"`
	EnergyKwh   float64 `json:"energyKwh"`
	Revenue     float64 `json:"revenue"`
}

// StationStats returns per-station session, energy and revenue totals for
// reservations starting after the given time.
func (r *ReservationRepository) StationStats(ctx context.Context, since time.Time) ([]StationStat, error) {
	const query = `
		SELECT s.id, s.name, COUNT(res.id), COALESCE(SUM(res.estimated_kwh), 0), COALESCE(SUM(res.estimated_cost), 0)
		FROM stations s
		JOIN chargers c ON c.station_id = s.id
		JOIN reservations res ON res.charger_id = c.id
		WHERE res.status = 'COMPLETED'
		  AND res.start_time >= $1
		GROUP BY s.id, s.name
		ORDER BY s.id
	`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []StationStat
	for rows.Next() {
		var stat StationStat
		if err := rows.Scan(&stat.StationID, &stat.StationName, &stat.Sessions, &stat.EnergyKwh, &stat.Revenue); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
