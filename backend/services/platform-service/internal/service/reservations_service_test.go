package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"chargenet/backend/services/platform-service/internal/models"
)

type reservationFixture struct {
	svc      *ReservationsService
	clients  *memClientRepo
	chargers *memChargerRepo
	repo     *memReservationRepo
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	clients := newMemClientRepo()
	chargers := newMemChargerRepo()
	repo := newMemReservationRepo()
	return &reservationFixture{
		svc:      NewReservationsService(repo, clients, chargers, zap.NewNop()),
		clients:  clients,
		chargers: chargers,
		repo:     repo,
	}
}

func (f *reservationFixture) seed(t *testing.T, chargerStatus models.ChargerStatus) (clientID, chargerID int64) {
	t.Helper()
	client := &models.Client{Name: "Ana", Email: "ana@example.com", Role: models.RoleClient}
	if err := f.clients.Create(context.Background(), client); err != nil {
		t.Fatal(err)
	}
	charger := &models.Charger{StationID: 1, ChargerType: models.ChargerTypeDCFast, Status: chargerStatus, PricePerKwh: 0.40}
	if err := f.chargers.Create(context.Background(), charger); err != nil {
		t.Fatal(err)
	}
	return client.ID, charger.ID
}

func validInput(clientID, chargerID int64) ReservationInput {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return ReservationInput{
		ClientID:          clientID,
		ChargerID:         chargerID,
		StartTime:         start,
		EstimatedEndTime:  start.Add(45 * time.Minute),
		BatteryLevelStart: 30,
		EstimatedKwh:      28,
		EstimatedCost:     11.20,
	}
}

func TestCreateReservation(t *testing.T) {
	f := newReservationFixture(t)
	clientID, chargerID := f.seed(t, models.ChargerStatusAvailable)

	reservation, err := f.svc.Create(context.Background(), validInput(clientID, chargerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.Status != models.ReservationStatusActive {
		t.Errorf("status = %s, want ACTIVE", reservation.Status)
	}
	if reservation.ID == 0 {
		t.Error("reservation id not assigned")
	}
}

func TestCreateReservationValidation(t *testing.T) {
	f := newReservationFixture(t)
	clientID, chargerID := f.seed(t, models.ChargerStatusAvailable)

	noClient := validInput(0, chargerID)
	if _, err := f.svc.Create(context.Background(), noClient); err == nil {
		t.Error("expected error without client id")
	}

	badBattery := validInput(clientID, chargerID)
	badBattery.BatteryLevelStart = 100
	if _, err := f.svc.Create(context.Background(), badBattery); err == nil {
		t.Error("expected error for battery level 100")
	}

	badWindow := validInput(clientID, chargerID)
	badWindow.EstimatedEndTime = badWindow.StartTime
	if _, err := f.svc.Create(context.Background(), badWindow); err == nil {
		t.Error("expected error for empty time window")
	}

	ghostClient := validInput(999, chargerID)
	if _, err := f.svc.Create(context.Background(), ghostClient); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}

	ghostCharger := validInput(clientID, 999)
	if _, err := f.svc.Create(context.Background(), ghostCharger); !errors.Is(err, ErrChargerNotFound) {
		t.Errorf("expected ErrChargerNotFound, got %v", err)
	}
}

func TestCreateReservationChargerUnderMaintenance(t *testing.T) {
	f := newReservationFixture(t)
	clientID, chargerID := f.seed(t, models.ChargerStatusUnderMaintenance)

	_, err := f.svc.Create(context.Background(), validInput(clientID, chargerID))
	if !errors.Is(err, ErrChargerUnderMaintenance) {
		t.Fatalf("expected ErrChargerUnderMaintenance, got %v", err)
	}
}

func TestCreateReservationOverlap(t *testing.T) {
	f := newReservationFixture(t)
	clientID, chargerID := f.seed(t, models.ChargerStatusAvailable)

	first := validInput(clientID, chargerID)
	if _, err := f.svc.Create(context.Background(), first); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	overlapping := validInput(clientID, chargerID)
	overlapping.StartTime = first.StartTime.Add(20 * time.Minute)
	overlapping.EstimatedEndTime = first.EstimatedEndTime.Add(20 * time.Minute)
	if _, err := f.svc.Create(context.Background(), overlapping); !errors.Is(err, ErrChargerAlreadyReserved) {
		t.Fatalf("expected ErrChargerAlreadyReserved, got %v", err)
	}

	// Back-to-back windows do not overlap.
	adjacent := validInput(clientID, chargerID)
	adjacent.StartTime = first.EstimatedEndTime
	adjacent.EstimatedEndTime = first.EstimatedEndTime.Add(45 * time.Minute)
	if _, err := f.svc.Create(context.Background(), adjacent); err != nil {
		t.Fatalf("adjacent reservation rejected: %v", err)
	}
}

func TestCancelOnlyActive(t *testing.T) {
	f := newReservationFixture(t)
	clientID, chargerID := f.seed(t, models.ChargerStatusAvailable)

	reservation, err := f.svc.Create(context.Background(), validInput(clientID, chargerID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cancelled, err := f.svc.Cancel(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != models.ReservationStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	if _, err := f.svc.Cancel(context.Background(), reservation.ID); !errors.Is(err, ErrNotActive) {
		t.Fatalf("second cancel must fail with ErrNotActive, got %v", err)
	}
	if _, err := f.svc.Complete(context.Background(), reservation.ID); !errors.Is(err, ErrNotActive) {
		t.Fatalf("completing a cancelled reservation must fail, got %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), 999); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestCompleteReservation(t *testing.T) {
	f := newReservationFixture(t)
	clientID, chargerID := f.seed(t, models.ChargerStatusAvailable)

	reservation, err := f.svc.Create(context.Background(), validInput(clientID, chargerID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	completed, err := f.svc.Complete(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Status != models.ReservationStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", completed.Status)
	}
}

// Full booking flow across the services: register, log in, provision a
// station with a charger, reserve it and read the reservation back.
func TestBookingFlow(t *testing.T) {
	ctx := context.Background()

	clients := newMemClientRepo()
	chargerRepo := newMemChargerRepo()
	stationRepo := newMemStationRepo(chargerRepo)
	reservationRepo := newMemReservationRepo()
	discountRepo := newMemDiscountRepo()

	accounts := newAccountsService(clients)
	discounts := NewDiscountsService(discountRepo)
	stations := NewStationsService(stationRepo, discounts, zap.NewNop())
	chargers := NewChargersService(chargerRepo, stationRepo, nil, nil, zap.NewNop())
	reservations := NewReservationsService(reservationRepo, clients, chargerRepo, zap.NewNop())

	account, err := accounts.Signup(ctx, SignupInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
		BatteryCapacityKwh: 70, FullRangeKm: 350,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, _, err := accounts.Login(ctx, "ana@example.com", "supersecret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	station, err := stations.Create(ctx, &models.Station{
		Name: "Campo Grande", City: "Lisboa", Latitude: 38.75, Longitude: -9.15,
	})
	if err != nil {
		t.Fatalf("station create failed: %v", err)
	}

	charger, err := chargers.Create(ctx, &models.Charger{
		StationID: station.ID, ChargerType: models.ChargerTypeDCFast, PricePerKwh: 0.40,
	})
	if err != nil {
		t.Fatalf("charger create failed: %v", err)
	}

	if _, err := reservations.Create(ctx, validInput(account.ID, charger.ID)); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}

	list, err := reservations.ListByClient(ctx, account.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one reservation, got %d", len(list))
	}
	if list[0].Status != models.ReservationStatusActive || list[0].ChargerID != charger.ID {
		t.Fatalf("unexpected reservation %+v", list[0])
	}
}
