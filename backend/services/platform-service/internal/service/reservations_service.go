package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/repository"
)

var (
	// ErrReservationNotFound is returned for lookups of unknown reservations.
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrChargerUnderMaintenance blocks booking of a charger in maintenance.
	ErrChargerUnderMaintenance = errors.New("this charger is currently under maintenance and cannot be reserved")
	// ErrChargerAlreadyReserved blocks overlapping bookings on one charger.
	ErrChargerAlreadyReserved = errors.New("charger is already reserved for the requested time")
	// ErrNotActive is returned for cancel/complete on non-ACTIVE reservations.
	ErrNotActive = errors.New("invalid reservation status: only active reservations can be changed")
)

// ReservationRepository defines storage contract used by the reservations service.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Reservation, error)
	HasOverlap(ctx context.Context, chargerID int64, start, end time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error
	MarkPaid(ctx context.Context, id int64) error
	StationStats(ctx context.Context, since time.Time) ([]repository.StationStat, error)
}

// ClientLookup checks client existence for booking.
type ClientLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Client, error)
}

// ChargerLookup resolves chargers for booking.
type ChargerLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Charger, error)
}

// ReservationInput carries the booking request produced by the client-side
// reservation composer.
type ReservationInput struct {
	ClientID          int64
	ChargerID         int64
	StartTime         time.Time
	EstimatedEndTime  time.Time
	BatteryLevelStart int
	EstimatedKwh      float64
	EstimatedCost     float64
}

// ReservationsService implements booking, cancellation and completion.
type ReservationsService struct {
	repo     ReservationRepository
	clients  ClientLookup
	chargers ChargerLookup
	logger   *zap.Logger
}

// NewReservationsService builds ReservationsService.
func NewReservationsService(repo ReservationRepository, clients ClientLookup, chargers ChargerLookup, logger *zap.Logger) *ReservationsService {
	return &ReservationsService{
		repo:     repo,
		clients:  clients,
		chargers: chargers,
		logger:   logger,
	}
}

// Create books a charger. The charger must exist, must not be under
// maintenance and must be free for the requested window.
func (s *ReservationsService) Create(ctx context.Context, input ReservationInput) (*models.Reservation, error) {
	if input.ClientID == 0 {
		return nil, errors.New("client id is required")
	}
	if input.BatteryLevelStart < 0 || input.BatteryLevelStart >= 100 {
		return nil, errors.New("battery level must be between 0 and 99")
	}
	if !input.EstimatedEndTime.After(input.StartTime) {
		return nil, errors.New("estimated end time must be after start time")
	}

	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	charger, err := s.chargers.GetByID(ctx, input.ChargerID)
	if err != nil {
		if errors.Is(err, repository.ErrChargerNotFound) {
			return nil, ErrChargerNotFound
		}
		return nil, err
	}

	if charger.Status == models.ChargerStatusUnderMaintenance {
		return nil, ErrChargerUnderMaintenance
	}

	overlap, err := s.repo.HasOverlap(ctx, charger.ID, input.StartTime, input.EstimatedEndTime)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrChargerAlreadyReserved
	}

	reservation := &models.Reservation{
		ClientID:          input.ClientID,
		ChargerID:         charger.ID,
		StartTime:         input.StartTime,
		EstimatedEndTime:  input.EstimatedEndTime,
		BatteryLevelStart: input.BatteryLevelStart,
		EstimatedKwh:      input.EstimatedKwh,
		EstimatedCost:     input.EstimatedCost,
		Status:            models.ReservationStatusActive,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("client_id", reservation.ClientID),
		zap.Int64("charger_id", reservation.ChargerID),
		zap.Float64("estimated_cost", reservation.EstimatedCost),
	)
	return reservation, nil
}

// ListByClient returns a client's reservations. The client must exist.
func (s *ReservationsService) ListByClient(ctx context.Context, clientID int64) ([]models.Reservation, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.repo.ListByClient(ctx, clientID)
}

// Cancel transitions an ACTIVE reservation to CANCELLED.
func (s *ReservationsService) Cancel(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationStatusCancelled)
}

// Complete transitions an ACTIVE reservation to COMPLETED.
func (s *ReservationsService) Complete(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationStatusCompleted)
}

// GetByID fetches a reservation.
func (s *ReservationsService) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

// MarkPaid flags a reservation as paid after payment verification.
func (s *ReservationsService) MarkPaid(ctx context.Context, id int64) error {
	if err := s.repo.MarkPaid(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	return nil
}

// StationStats aggregates completed reservations per station since the given
// time, for the manager dashboard.
func (s *ReservationsService) StationStats(ctx context.Context, since time.Time) ([]repository.StationStat, error) {
	return s.repo.StationStats(ctx, since)
}

func (s *ReservationsService) transition(ctx context.Context, id int64, target models.ReservationStatus) (*models.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if reservation.Status != models.ReservationStatusActive {
		return nil, ErrNotActive
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	reservation.Status = target

	s.logger.Info("reservation transitioned",
		zap.Int64("reservation_id", id),
		zap.String("status", string(target)),
	)
	return reservation, nil
}
