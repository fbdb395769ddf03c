package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/repository"
)

// In-memory repositories backing the service tests.

type memClientRepo struct {
	mu      sync.Mutex
	nextID  int64
	clients map[int64]models.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[int64]models.Client)}
}

func (r *memClientRepo) Create(_ context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	client.ID = r.nextID
	client.CreatedAt = time.Now()
	r.clients[client.ID] = *client
	return nil
}

func (r *memClientRepo) GetByEmail(_ context.Context, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if strings.EqualFold(c.Email, email) {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (r *memClientRepo) GetByID(_ context.Context, id int64) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrClientNotFound
	}
	copy := c
	return &copy, nil
}

func (r *memClientRepo) Update(_ context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; !ok {
		return repository.ErrClientNotFound
	}
	r.clients[client.ID] = *client
	return nil
}

func (r *memClientRepo) UpdateRole(_ context.Context, id int64, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return repository.ErrClientNotFound
	}
	c.Role = role
	r.clients[id] = c
	return nil
}

type memStationRepo struct {
	mu       sync.Mutex
	nextID   int64
	stations map[int64]models.Station
	chargers *memChargerRepo
}

func newMemStationRepo(chargers *memChargerRepo) *memStationRepo {
	return &memStationRepo{stations: make(map[int64]models.Station), chargers: chargers}
}

func (r *memStationRepo) Create(_ context.Context, station *models.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	station.ID = r.nextID
	station.CreatedAt = time.Now()
	r.stations[station.ID] = *station
	return nil
}

func (r *memStationRepo) ExistsAt(_ context.Context, latitude, longitude float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stations {
		if s.Latitude == latitude && s.Longitude == longitude {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStationRepo) List(_ context.Context) ([]models.StationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StationSummary
	for _, s := range r.stations {
		out = append(out, models.StationSummary{
			ID: s.ID, Name: s.Name, Address: s.Address, City: s.City,
			Latitude: s.Latitude, Longitude: s.Longitude, ImageURL: s.ImageURL,
		})
	}
	return out, nil
}

func (r *memStationRepo) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	r.mu.Lock()
	s, ok := r.stations[id]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	copy := s
	if r.chargers != nil {
		list, err := r.chargers.ListByStation(ctx, id)
		if err != nil {
			return nil, err
		}
		copy.Chargers = list
	}
	return &copy, nil
}

func (r *memStationRepo) FindBySlot(ctx context.Context, _, _ int, chargerType models.ChargerType) ([]models.StationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StationSummary
	for _, s := range r.stations {
		if r.chargers == nil {
			continue
		}
		list, _ := r.chargers.ListByStation(ctx, s.ID)
		for _, c := range list {
			if c.ChargerType == chargerType {
				out = append(out, models.StationSummary{ID: s.ID, Name: s.Name, City: s.City})
				break
			}
		}
	}
	return out, nil
}

func (r *memStationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stations[id]; !ok {
		return repository.ErrStationNotFound
	}
	delete(r.stations, id)
	return nil
}

type memChargerRepo struct {
	mu       sync.Mutex
	nextID   int64
	chargers map[int64]models.Charger
}

func newMemChargerRepo() *memChargerRepo {
	return &memChargerRepo{chargers: make(map[int64]models.Charger)}
}

func (r *memChargerRepo) Create(_ context.Context, charger *models.Charger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	charger.ID = r.nextID
	charger.CreatedAt = time.Now()
	r.chargers[charger.ID] = *charger
	return nil
}

func (r *memChargerRepo) GetByID(_ context.Context, id int64) (*models.Charger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chargers[id]
	if !ok {
		return nil, repository.ErrChargerNotFound
	}
	copy := c
	return &copy, nil
}

func (r *memChargerRepo) ListByStation(_ context.Context, stationID int64) ([]models.Charger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Charger
	for _, c := range r.chargers {
		if c.StationID == stationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memChargerRepo) ListByStatus(_ context.Context, status models.ChargerStatus) ([]models.Charger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Charger
	for _, c := range r.chargers {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memChargerRepo) UpdateStatus(_ context.Context, id int64, status models.ChargerStatus, note string, maintenanceAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chargers[id]
	if !ok {
		return repository.ErrChargerNotFound
	}
	c.Status = status
	c.MaintenanceNote = note
	if maintenanceAt != nil {
		c.LastMaintenance = maintenanceAt
	}
	r.chargers[id] = c
	return nil
}

func (r *memChargerRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chargers[id]; !ok {
		return repository.ErrChargerNotFound
	}
	delete(r.chargers, id)
	return nil
}

func (r *memChargerRepo) CountByStatus(_ context.Context, status models.ChargerStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.chargers {
		if c.Status == status {
			count++
		}
	}
	return count, nil
}

type memReservationRepo struct {
	mu           sync.Mutex
	nextID       int64
	reservations map[int64]models.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: make(map[int64]models.Reservation)}
}

func (r *memReservationRepo) Create(_ context.Context, reservation *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	reservation.ID = r.nextID
	reservation.CreatedAt = time.Now()
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *memReservationRepo) GetByID(_ context.Context, id int64) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	copy := res
	return &copy, nil
}

func (r *memReservationRepo) ListByClient(_ context.Context, clientID int64) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reservation
	for _, res := range r.reservations {
		if res.ClientID == clientID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memReservationRepo) HasOverlap(_ context.Context, chargerID int64, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.reservations {
		if res.ChargerID != chargerID || res.Status != models.ReservationStatusActive {
			continue
		}
		if res.EstimatedEndTime.After(start) && res.StartTime.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReservationRepo) UpdateStatus(_ context.Context, id int64, status models.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	res.Status = status
	r.reservations[id] = res
	return nil
}

func (r *memReservationRepo) MarkPaid(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	res.Paid = true
	r.reservations[id] = res
	return nil
}

func (r *memReservationRepo) StationStats(_ context.Context, _ time.Time) ([]repository.StationStat, error) {
	return nil, nil
}

type memDiscountRepo struct {
	mu        sync.Mutex
	nextID    int64
	discounts map[int64]models.Discount
}

func newMemDiscountRepo() *memDiscountRepo {
	return &memDiscountRepo{discounts: make(map[int64]models.Discount)}
}

func (r *memDiscountRepo) Create(_ context.Context, discount *models.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	discount.ID = r.nextID
	r.discounts[discount.ID] = *discount
	return nil
}

func (r *memDiscountRepo) Update(_ context.Context, discount *models.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.discounts[discount.ID]; !ok {
		return repository.ErrDiscountNotFound
	}
	r.discounts[discount.ID] = *discount
	return nil
}

func (r *memDiscountRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.discounts[id]; !ok {
		return repository.ErrDiscountNotFound
	}
	delete(r.discounts, id)
	return nil
}

func (r *memDiscountRepo) GetByID(_ context.Context, id int64) (*models.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.discounts[id]
	if !ok {
		return nil, repository.ErrDiscountNotFound
	}
	copy := d
	return &copy, nil
}

func (r *memDiscountRepo) List(_ context.Context) ([]models.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Discount
	for _, d := range r.discounts {
		out = append(out, d)
	}
	return out, nil
}

func (r *memDiscountRepo) FindActiveAt(_ context.Context, stationID int64, chargerType models.ChargerType, dayOfWeek, hour int) ([]models.Discount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Discount
	for _, d := range r.discounts {
		if !d.Active || d.StationID != stationID || d.ChargerType != chargerType {
			continue
		}
		if d.DayOfWeek == dayOfWeek && hour >= d.StartHour && hour < d.EndHour {
			out = append(out, d)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Charger
}

func (n *recordingNotifier) NotifyStatus(charger *models.Charger) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, *charger)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type memCountCache struct {
	mu          sync.Mutex
	counts      map[models.ChargerStatus]int64
	invalidated int
}

func newMemCountCache() *memCountCache {
	return &memCountCache{counts: make(map[models.ChargerStatus]int64)}
}

func (c *memCountCache) Get(_ context.Context, status models.ChargerStatus) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[status]
	return count, ok
}

func (c *memCountCache) Set(_ context.Context, status models.ChargerStatus, count int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[status] = count
}

func (c *memCountCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[models.ChargerStatus]int64)
	c.invalidated++
}
