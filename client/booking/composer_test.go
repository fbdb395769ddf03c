package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"chargenet/client"
)

func TestProjectDeterministicCost(t *testing.T) {
	// Battery at 90% needs 4.00 kWh; at 0.30/kWh that is 1.20.
	p, err := Project("AC_STANDARD", 90, 0.30, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.EnergyKwh != 4.0 {
		t.Errorf("energy = %f, want 4.0", p.EnergyKwh)
	}
	if p.Cost != 1.20 {
		t.Errorf("cost = %f, want 1.20", p.Cost)
	}
	// 4.0 kWh at 7.4 kW is 32.43 minutes, rounded up.
	if p.DurationMinutes != 33 {
		t.Errorf("duration = %d, want 33", p.DurationMinutes)
	}
	if !p.End.Equal(p.Start.Add(33 * time.Minute)) {
		t.Errorf("end = %v, want start + 33m", p.End)
	}
}

func TestProjectMinimumFee(t *testing.T) {
	// 2.4 kWh at 0.10/kWh is 0.24, below the floor.
	p, err := Project("DC_ULTRA_FAST", 94, 0.10, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cost != 0.50 {
		t.Errorf("cost = %f, want minimum fee 0.50", p.Cost)
	}
}

func TestProjectPowerByType(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		chargerType string
		wantMinutes int
	}{
		{"AC_STANDARD", 325},  // 40 kWh / 7.4 kW
		{"DC_FAST", 48},       // 40 kWh / 50 kW
		{"DC_ULTRA_FAST", 16}, // 40 kWh / 150 kW
	}
	for _, c := range cases {
		p, err := Project(c.chargerType, 0, 0.25, start)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.chargerType, err)
		}
		if p.DurationMinutes != c.wantMinutes {
			t.Errorf("%s: duration = %d, want %d", c.chargerType, p.DurationMinutes, c.wantMinutes)
		}
	}
}

func TestProjectRejectsInvalidBattery(t *testing.T) {
	for _, level := range []int{-1, 100, 150} {
		if _, err := Project("DC_FAST", level, 0.25, time.Now()); err == nil {
			t.Errorf("battery %d: expected error", level)
		}
	}
}

func TestProjectRejectsUnknownType(t *testing.T) {
	if _, err := Project("SOLAR", 50, 0.25, time.Now()); err == nil {
		t.Fatal("expected error for unknown charger type")
	}
}

type recordingAPI struct {
	calls int
	last  client.ReservationRequest
}

func (a *recordingAPI) CreateReservation(_ context.Context, req client.ReservationRequest) (*client.Reservation, error) {
	a.calls++
	a.last = req
	return &client.Reservation{ID: 1, ChargerID: req.ChargerID, Status: "ACTIVE"}, nil
}

func TestBookRequiresClientBeforeNetworkCall(t *testing.T) {
	api := &recordingAPI{}
	composer := NewComposer(api)

	_, err := composer.Book(context.Background(), Input{
		Charger:      client.Charger{ID: 7, ChargerType: "DC_FAST", PricePerKwh: 0.40},
		BatteryLevel: 50,
	})
	if !errors.Is(err, ErrClientRequired) {
		t.Fatalf("expected ErrClientRequired, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no network calls, got %d", api.calls)
	}
}

func TestBookSendsProjectedRequest(t *testing.T) {
	api := &recordingAPI{}
	composer := NewComposer(api)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	reservation, err := composer.Book(context.Background(), Input{
		ClientID:     42,
		Charger:      client.Charger{ID: 7, ChargerType: "DC_FAST", PricePerKwh: 0.40},
		BatteryLevel: 20,
		Start:        start,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.Status != "ACTIVE" {
		t.Fatalf("unexpected status %s", reservation.Status)
	}

	req := api.last
	if req.ClientID != 42 || req.ChargerID != 7 {
		t.Errorf("unexpected ids in request: %+v", req)
	}
	if req.EstimatedKwh != 32.0 {
		t.Errorf("energy = %f, want 32.0", req.EstimatedKwh)
	}
	if req.EstimatedCost != 12.80 {
		t.Errorf("cost = %f, want 12.80", req.EstimatedCost)
	}
	// 32 kWh at 50 kW is 38.4 minutes, rounded up to 39.
	if !req.EstimatedEndTime.Equal(start.Add(39 * time.Minute)) {
		t.Errorf("end = %v, want start + 39m", req.EstimatedEndTime)
	}
}
