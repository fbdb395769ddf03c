package service

import (
	"context"
	"errors"
	"time"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/repository"
)

// ErrDiscountNotFound is returned for lookups of unknown discounts.
var ErrDiscountNotFound = errors.New("discount not found")

// DiscountRepository defines storage contract used by the discounts service.
type DiscountRepository interface {
	Create(ctx context.Context, discount *models.Discount) error
	Update(ctx context.Context, discount *models.Discount) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Discount, error)
	List(ctx context.Context) ([]models.Discount, error)
	FindActiveAt(ctx context.Context, stationID int64, chargerType models.ChargerType, dayOfWeek, hour int) ([]models.Discount, error)
}

// DiscountsService manages weekly discount windows.
type DiscountsService struct {
	repo DiscountRepository
}

// NewDiscountsService builds DiscountsService.
func NewDiscountsService(repo DiscountRepository) *DiscountsService {
	return &DiscountsService{repo: repo}
}

// Create validates and stores a discount window.
func (s *DiscountsService) Create(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// Update replaces a stored discount.
func (s *DiscountsService) Update(ctx context.Context, id int64, discount *models.Discount) (*models.Discount, error) {
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}
	discount.ID = id
	if err := s.repo.Update(ctx, discount); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return discount, nil
}

// Delete removes a discount.
func (s *DiscountsService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return ErrDiscountNotFound
		}
		return err
	}
	return nil
}

// Get fetches a single discount.
func (s *DiscountsService) Get(ctx context.Context, id int64) (*models.Discount, error) {
	discount, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return discount, nil
}

// List returns all discounts.
func (s *DiscountsService) List(ctx context.Context) ([]models.Discount, error) {
	return s.repo.List(ctx)
}

// ActivePercent returns the best active discount percent for the station,
// charger type and moment, or nil when no window matches. The weekly slot
// follows ISO 8601 weekdays (1=Monday .. 7=Sunday).
func (s *DiscountsService) ActivePercent(ctx context.Context, stationID int64, chargerType models.ChargerType, at time.Time) (*float64, error) {
	dayOfWeek := isoWeekday(at)
	discounts, err := s.repo.FindActiveAt(ctx, stationID, chargerType, dayOfWeek, at.Hour())
	if err != nil {
		return nil, err
	}
	if len(discounts) == 0 {
		return nil, nil
	}

	best := discounts[0].DiscountPercent
	for _, d := range discounts[1:] {
		if d.DiscountPercent > best {
			best = d.DiscountPercent
		}
	}
	return &best, nil
}

func validateDiscount(d *models.Discount) error {
	if d.StationID == 0 {
		return errors.New("station id is required")
	}
	if !d.ChargerType.Valid() {
		return errors.New("invalid charger type")
	}
	if d.DayOfWeek < 1 || d.DayOfWeek > 7 {
		return errors.New("day of week must be between 1 and 7")
	}
	if d.StartHour < 0 || d.StartHour > 23 || d.EndHour < 1 || d.EndHour > 24 || d.StartHour >= d.EndHour {
		return errors.New("invalid discount hour window")
	}
	if d.DiscountPercent <= 0 || d.DiscountPercent >= 100 {
		return errors.New("discount percent must be between 0 and 100")
	}
	return nil
}

// isoWeekday maps time.Weekday (Sunday=0) onto ISO 8601 (Monday=1..Sunday=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
