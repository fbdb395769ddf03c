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
	// ErrChargerNotFound is returned for lookups of unknown chargers.
	ErrChargerNotFound = errors.New("charger not found")
	// ErrInvalidChargerStatus is returned for unknown status values.
	ErrInvalidChargerStatus = errors.New("invalid charger status")
)

// ChargerRepository defines storage contract used by the chargers service.
type ChargerRepository interface {
	Create(ctx context.Context, charger *models.Charger) error
	GetByID(ctx context.Context, id int64) (*models.Charger, error)
	ListByStation(ctx context.Context, stationID int64) ([]models.Charger, error)
	ListByStatus(ctx context.Context, status models.ChargerStatus) ([]models.Charger, error)
	UpdateStatus(ctx context.Context, id int64, status models.ChargerStatus, note string, maintenanceAt *time.Time) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, status models.ChargerStatus) (int64, error)
}

// StationLookup checks station existence for charger creation.
type StationLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Station, error)
}

// StatusNotifier publishes charger status transitions to live subscribers.
type StatusNotifier interface {
	NotifyStatus(charger *models.Charger)
}

// CountCache caches network-wide charger counts per status.
type CountCache interface {
	Get(ctx context.Context, status models.ChargerStatus) (int64, bool)
	Set(ctx context.Context, status models.ChargerStatus, count int64)
	Invalidate(ctx context.Context)
}

// ChargersService manages charging points and their status lifecycle.
type ChargersService struct {
	repo     ChargerRepository
	stations StationLookup
	notifier StatusNotifier
	counts   CountCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewChargersService builds ChargersService. notifier and counts may be nil.
func NewChargersService(repo ChargerRepository, stations StationLookup, notifier StatusNotifier, counts CountCache, logger *zap.Logger) *ChargersService {
	return &ChargersService{
		repo:     repo,
		stations: stations,
		notifier: notifier,
		counts:   counts,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and attaches a new charger to a station.
func (s *ChargersService) Create(ctx context.Context, charger *models.Charger) (*models.Charger, error) {
	if !charger.ChargerType.Valid() {
		return nil, errors.New("invalid charger type")
	}
	if charger.Status == "" {
		charger.Status = models.ChargerStatusAvailable
	}
	if !charger.Status.Valid() {
		return nil, ErrInvalidChargerStatus
	}
	if charger.PricePerKwh <= 0 {
		return nil, errors.New("price per kWh must be positive")
	}

	if _, err := s.stations.GetByID(ctx, charger.StationID); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, charger); err != nil {
		return nil, err
	}
	s.invalidateCounts(ctx)
	s.logger.Info("charger created",
		zap.Int64("charger_id", charger.ID),
		zap.Int64("station_id", charger.StationID),
		zap.String("type", string(charger.ChargerType)),
	)
	return charger, nil
}

// ListByStation returns the chargers of a station.
func (s *ChargersService) ListByStation(ctx context.Context, stationID int64) ([]models.Charger, error) {
	return s.repo.ListByStation(ctx, stationID)
}

// ListAvailable returns all chargers currently AVAILABLE.
func (s *ChargersService) ListAvailable(ctx context.Context) ([]models.Charger, error) {
	return s.repo.ListByStatus(ctx, models.ChargerStatusAvailable)
}

// UpdateStatus transitions a charger and notifies live dashboards. Entering
// UNDER_MAINTENANCE records the note and timestamp; leaving it clears the note.
func (s *ChargersService) UpdateStatus(ctx context.Context, id int64, status models.ChargerStatus, note string) (*models.Charger, error) {
	if !status.Valid() {
		return nil, ErrInvalidChargerStatus
	}

	var maintenanceAt *time.Time
	if status == models.ChargerStatusUnderMaintenance {
		at := s.now().UTC()
		maintenanceAt = &at
	} else {
		note = ""
	}

	if err := s.repo.UpdateStatus(ctx, id, status, note, maintenanceAt); err != nil {
		if errors.Is(err, repository.ErrChargerNotFound) {
			return nil, ErrChargerNotFound
		}
		return nil, err
	}

	charger, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateCounts(ctx)
	if s.notifier != nil {
		s.notifier.NotifyStatus(charger)
	}
	s.logger.Info("charger status updated", zap.Int64("charger_id", id), zap.String("status", string(status)))
	return charger, nil
}

// Delete removes a charger.
func (s *ChargersService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrChargerNotFound) {
			return ErrChargerNotFound
		}
		return err
	}
	s.invalidateCounts(ctx)
	return nil
}

// CountByStatus returns the network-wide count of chargers in a status,
// served from cache when warm.
func (s *ChargersService) CountByStatus(ctx context.Context, status models.ChargerStatus) (int64, error) {
	if !status.Valid() {
		return 0, ErrInvalidChargerStatus
	}
	if s.counts != nil {
		if count, ok := s.counts.Get(ctx, status); ok {
			return count, nil
		}
	}

	count, err := s.repo.CountByStatus(ctx, status)
	if err != nil {
		return 0, err
	}
	if s.counts != nil {
		s.counts.Set(ctx, status, count)
	}
	return count, nil
}

func (s *ChargersService) invalidateCounts(ctx context.Context) {
	if s.counts != nil {
		s.counts.Invalidate(ctx)
	}
}
