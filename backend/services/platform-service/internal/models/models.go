package models

import "time"

// ChargerType enumerates supported charger hardware classes.
type ChargerType string

const (
	ChargerTypeACStandard  ChargerType = "AC_STANDARD"
	ChargerTypeDCFast      ChargerType = "DC_FAST"
	ChargerTypeDCUltraFast ChargerType = "DC_ULTRA_FAST"
)

// Valid reports whether t is a known charger type.
func (t ChargerType) Valid() bool {
	switch t {
	case ChargerTypeACStandard, ChargerTypeDCFast, ChargerTypeDCUltraFast:
		return true
	}
	return false
}

// ChargerStatus enumerates operational states of a charger.
type ChargerStatus string

const (
	ChargerStatusAvailable        ChargerStatus = "AVAILABLE"
	ChargerStatusInUse            ChargerStatus = "IN_USE"
	ChargerStatusUnderMaintenance ChargerStatus = "UNDER_MAINTENANCE"
)

// Valid reports whether s is a known charger status.
func (s ChargerStatus) Valid() bool {
	switch s {
	case ChargerStatusAvailable, ChargerStatusInUse, ChargerStatusUnderMaintenance:
		return true
	}
	return false
}

// ReservationStatus enumerates reservation lifecycle states.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Role enumerates account roles.
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleManager:
		return true
	}
	return false
}

// Client is a registered account with an EV profile.
type Client struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Role               Role      `json:"role"`
	BatteryCapacityKwh float64   `json:"batteryCapacityKwh"`
	FullRangeKm        float64   `json:"fullRangeKm"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Station is a charging site. Latitude/longitude pairs are unique.
type Station struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Chargers  []Charger `json:"chargers,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Charger is a single charging point at a station.
type Charger struct {
	ID              int64         `json:"id"`
	StationID       int64         `json:"stationId"`
	ChargerType     ChargerType   `json:"chargerType"`
	Status          ChargerStatus `json:"status"`
	PricePerKwh     float64       `json:"pricePerKwh"`
	LastMaintenance *time.Time    `json:"lastMaintenance,omitempty"`
	MaintenanceNote string        `json:"maintenanceNote,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// Reservation books a charger for a projected charging window.
type Reservation struct {
	ID                int64             `json:"id"`
	ClientID          int64             `json:"clientId"`
	ChargerID         int64             `json:"chargerId"`
	StartTime         time.Time         `json:"startTime"`
	EstimatedEndTime  time.Time         `json:"estimatedEndTime"`
	BatteryLevelStart int               `json:"batteryLevelStart"`
	EstimatedKwh      float64           `json:"estimatedKwh"`
	EstimatedCost     float64           `json:"estimatedCost"`
	Status            ReservationStatus `json:"status"`
	Paid              bool              `json:"paid"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// Discount is a recurring weekly price reduction for a station and charger
// type. DayOfWeek follows ISO 8601: 1=Monday .. 7=Sunday. The window covers
// hours [StartHour, EndHour).
type Discount struct {
	ID              int64       `json:"id"`
	StationID       int64       `json:"stationId"`
	ChargerType     ChargerType `json:"chargerType"`
	DayOfWeek       int         `json:"dayOfWeek"`
	StartHour       int         `json:"startHour"`
	EndHour         int         `json:"endHour"`
	DiscountPercent float64     `json:"discountPercent"`
	Active          bool        `json:"active"`
}

// StationSummary is the list-view projection of a station, optionally
// annotated with the best active discount for a searched time slot.
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

// StationDetails is the detail-view projection: the station, its chargers and
// the active discount for the requested datetime.
type StationDetails struct {
	Station
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
}
