// Package booking turns a charger selection into a priced reservation request.
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"chargenet/client"
)

const (
	// kWh needed per percentage point of battery.
	kwhPerPercent = 0.4
	// minimumFee is the floor applied to every estimated cost.
	minimumFee = 0.50
)

// ErrClientRequired is returned when booking without a resolved client id.
var ErrClientRequired = errors.New("a logged-in client is required to book")

// chargerPowerKw maps charger types to their delivery power.
var chargerPowerKw = map[string]float64{
	"AC_STANDARD":   7.4,
	"DC_FAST":       50,
	"DC_ULTRA_FAST": 150,
}

// Projection is the estimated charging session derived from the current
// battery level and the charger's type and price.
type Projection struct {
	EnergyKwh       float64
	DurationMinutes int
	Cost            float64
	Start           time.Time
	End             time.Time
}

// Project computes the session estimate. batteryLevel is the current charge
// percentage and must be an integer in [0, 100). A zero start means now.
func Project(chargerType string, batteryLevel int, pricePerKwh float64, start time.Time) (*Projection, error) {
	power, ok := chargerPowerKw[chargerType]
	if !ok {
		return nil, fmt.Errorf("unknown charger type %q", chargerType)
	}
	if batteryLevel < 0 || batteryLevel >= 100 {
		return nil, errors.New("battery level must be between 0 and 99")
	}
	if pricePerKwh < 0 {
		return nil, errors.New("price per kWh must not be negative")
	}

	if start.IsZero() {
		start = time.Now()
	}

	energy := float64(100-batteryLevel) * kwhPerPercent
	minutes := int(math.Ceil(energy / power * 60))
	cost := math.Max(minimumFee, energy*pricePerKwh)
	cost = math.Round(cost*100) / 100

	return &Projection{
		EnergyKwh:       energy,
		DurationMinutes: minutes,
		Cost:            cost,
		Start:           start,
		End:             start.Add(time.Duration(minutes) * time.Minute),
	}, nil
}

// API is the slice of the REST client used for booking.
type API interface {
	CreateReservation(ctx context.Context, req client.ReservationRequest) (*client.Reservation, error)
}

// Composer books chargers on behalf of a logged-in client.
type Composer struct {
	api API
}

// NewComposer builds a Composer.
func NewComposer(api API) *Composer {
	return &Composer{api: api}
}

// Input describes a booking.
type Input struct {
	ClientID     int64
	Charger      client.Charger
	BatteryLevel int
	Start        time.Time
}

// Book projects the session and creates the reservation. The client id is
// validated before any network call is made.
func (c *Composer) Book(ctx context.Context, input Input) (*client.Reservation, error) {
	if input.ClientID == 0 {
		return nil, ErrClientRequired
	}

	projection, err := Project(input.Charger.ChargerType, input.BatteryLevel, input.Charger.PricePerKwh, input.Start)
	if err != nil {
		return nil, err
	}

	return c.api.CreateReservation(ctx, client.ReservationRequest{
		ClientID:          input.ClientID,
		ChargerID:         input.Charger.ID,
		StartTime:         projection.Start,
		EstimatedEndTime:  projection.End,
		BatteryLevelStart: input.BatteryLevel,
		EstimatedKwh:      projection.EnergyKwh,
		EstimatedCost:     projection.Cost,
	})
}
