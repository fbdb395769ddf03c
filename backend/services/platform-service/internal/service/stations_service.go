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
	// ErrStationNotFound is returned for lookups of unknown stations.
	ErrStationNotFound = errors.New("station not found")
	// ErrStationExists is returned when a station already occupies a coordinate pair.
	ErrStationExists = errors.New("station already exists at this location")
)

// StationRepository defines storage contract used by the stations service.
type StationRepository interface {
	Create(ctx context.Context, station *models.Station) error
	ExistsAt(ctx context.Context, latitude, longitude float64) (bool, error)
	List(ctx context.Context) ([]models.StationSummary, error)
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	FindBySlot(ctx context.Context, dayOfWeek, hour int, chargerType models.ChargerType) ([]models.StationSummary, error)
	Delete(ctx context.Context, id int64) error
}

// DiscountLookup resolves the active discount for a station at a moment.
type DiscountLookup interface {
	ActivePercent(ctx context.Context, stationID int64, chargerType models.ChargerType, at time.Time) (*float64, error)
}

// StationsService implements station listing, creation, slot search and the
// detail view consumed by the booking flow.
type StationsService struct {
	repo      StationRepository
	discounts DiscountLookup
	logger    *zap.Logger
}

// NewStationsService builds StationsService.
func NewStationsService(repo StationRepository, discounts DiscountLookup, logger *zap.Logger) *StationsService {
	return &StationsService{repo: repo, discounts: discounts, logger: logger}
}

// List returns all stations.
func (s *StationsService) List(ctx context.Context) ([]models.StationSummary, error) {
	return s.repo.List(ctx)
}

// Create validates and stores a new station.
func (s *StationsService) Create(ctx context.Context, station *models.Station) (*models.Station, error) {
	if station.Name == "" || station.City == "" {
		return nil, errors.New("name and city are required")
	}
	if station.Latitude < -90 || station.Latitude > 90 || station.Longitude < -180 || station.Longitude > 180 {
		return nil, errors.New("invalid coordinates")
	}

	exists, err := s.repo.ExistsAt(ctx, station.Latitude, station.Longitude)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStationExists
	}

	if err := s.repo.Create(ctx, station); err != nil {
		return nil, err
	}
	s.logger.Info("station created", zap.Int64("station_id", station.ID), zap.String("city", station.City))
	return station, nil
}

// Details returns a station with its chargers and the best active discount
// across the charger types present at the station for the given moment.
func (s *StationsService) Details(ctx context.Context, id int64, at time.Time) (*models.StationDetails, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	details := &models.StationDetails{Station: *station}

	seen := make(map[models.ChargerType]bool)
	for _, charger := range station.Chargers {
		if seen[charger.ChargerType] {
			continue
		}
		seen[charger.ChargerType] = true

		percent, err := s.discounts.ActivePercent(ctx, id, charger.ChargerType, at)
		if err != nil {
			return nil, err
		}
		if percent != nil && (details.DiscountPercent == nil || *percent > *details.DiscountPercent) {
			details.DiscountPercent = percent
		}
	}
	return details, nil
}

// SearchBySlot returns stations offering the charger type, annotated with the
// best active discount for the weekly slot.
func (s *StationsService) SearchBySlot(ctx context.Context, dayOfWeek, hour int, chargerType models.ChargerType) ([]models.StationSummary, error) {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return nil, errors.New("day of week must be between 1 and 7")
	}
	if hour < 0 || hour > 23 {
		return nil, errors.New("hour must be between 0 and 23")
	}
	if !chargerType.Valid() {
		return nil, errors.New("invalid charger type")
	}
	return s.repo.FindBySlot(ctx, dayOfWeek, hour, chargerType)
}

// Delete removes a station.
func (s *StationsService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	return nil
}
