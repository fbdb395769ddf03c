package client

import "time"

// Account is a registered client profile as returned by the API.
type Account struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Role               string  `json:"role"`
	BatteryCapacityKwh float64 `json:"batteryCapacityKwh"`
	FullRangeKm        float64 `json:"fullRangeKm"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token  string   `json:"token"`
	Client *Account `json:"client"`
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	BatteryCapacityKwh float64 `json:"batteryCapacityKwh"`
	FullRangeKm        float64 `json:"fullRangeKm"`
}

// ProfileUpdate carries mutable profile fields.
type ProfileUpdate struct {
	Name               string  `json:"name,omitempty"`
	Password           string  `json:"password,omitempty"`
	BatteryCapacityKwh float64 `json:"batteryCapacityKwh,omitempty"`
	FullRangeKm        float64 `json:"fullRangeKm,omitempty"`
}

// StationSummary is the list/search projection of a station.
type StationSummary struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
}

// Charger is a charging point at a station.
type Charger struct {
	ID              int64      `json:"id"`
	StationID       int64      `json:"stationId"`
	ChargerType     string     `json:"chargerType"`
	Status          string     `json:"status"`
	PricePerKwh     float64    `json:"pricePerKwh"`
	LastMaintenance *time.Time `json:"lastMaintenance,omitempty"`
	MaintenanceNote string     `json:"maintenanceNote,omitempty"`
}

// StationDetails is a station with its chargers and the active discount.
type StationDetails struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Chargers        []Charger `json:"chargers,omitempty"`
	DiscountPercent *float64  `json:"discountPercent,omitempty"`
}

// Station carries the fields needed to create a station.
type Station struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

// Reservation books a charger for a projected charging window.
type Reservation struct {
	ID                int64     `json:"id"`
	ClientID          int64     `json:"clientId"`
	ChargerID         int64     `json:"chargerId"`
	StartTime         time.Time `json:"startTime"`
	EstimatedEndTime  time.Time `json:"estimatedEndTime"`
	BatteryLevelStart int       `json:"batteryLevelStart"`
	EstimatedKwh      float64   `json:"estimatedKwh"`
	EstimatedCost     float64   `json:"estimatedCost"`
	Status            string    `json:"status"`
	Paid              bool      `json:"paid"`
}

// ReservationRequest creates a reservation.
type ReservationRequest struct {
	ClientID          int64     `json:"clientId"`
	ChargerID         int64     `json:"chargerId"`
	StartTime         time.Time `json:"startTime"`
	EstimatedEndTime  time.Time `json:"estimatedEndTime"`
	BatteryLevelStart int       `json:"batteryLevelStart"`
	EstimatedKwh      float64   `json:"estimatedKwh"`
	EstimatedCost     float64   `json:"estimatedCost"`
}

// Discount is a recurring weekly price reduction.
type Discount struct {
	ID              int64   `json:"id"`
	StationID       int64   `json:"stationId"`
	ChargerType     string  `json:"chargerType"`
	DayOfWeek       int     `json:"dayOfWeek"`
	StartHour       int     `json:"startHour"`
	EndHour         int     `json:"endHour"`
	DiscountPercent float64 `json:"discountPercent"`
	Active          bool    `json:"active"`
}

// StationStat is one row of the manager dashboard aggregates.
type StationStat struct {
	StationID   int64   `json:"stationId"`
	StationName string  `json:"stationName"`
	Sessions    int64   `json:"sessions"`
	EnergyKwh   float64 `json:"energyKwh"`
	Revenue     float64 `json:"revenue"`
}

// CheckoutSession is returned when opening a payment session.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// ChargerCount is the cached per-status total.
type ChargerCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}
