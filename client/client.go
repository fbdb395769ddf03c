// Package client is a typed Go client for the charging-network REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPDoer defines the http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// APIError carries a non-2xx response. Message is the server's error text
// when the body held an {"error": ...} envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client talks to the platform service.
type Client struct {
	baseURL string
	http    HTTPDoer
	token   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, "/api/clients/signup", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Login authenticates and stores the returned bearer token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/clients/login", payload, &auth); err != nil {
		return nil, err
	}
	c.token = auth.Token
	return &auth, nil
}

// UpdateProfile updates the account identified by email.
func (c *Client) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPut, "/api/clients/"+url.PathEscape(email), update, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ChangeRole promotes or demotes an account. Requires a manager token.
func (c *Client) ChangeRole(ctx context.Context, clientID int64, role string) (*Account, error) {
	payload := map[string]string{"role": role}
	var account Account
	if err := c.do(ctx, http.MethodPut, "/api/clients/changeRole/"+strconv.FormatInt(clientID, 10), payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListStations returns all stations.
func (c *Client) ListStations(ctx context.Context) ([]StationSummary, error) {
	var stations []StationSummary
	if err := c.do(ctx, http.MethodGet, "/api/stations", nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// SearchStations returns stations matching a weekly time slot and charger type.
func (c *Client) SearchStations(ctx context.Context, dayOfWeek, hour int, chargerType string) ([]StationSummary, error) {
	query := url.Values{}
	query.Set("dayOfWeek", strconv.Itoa(dayOfWeek))
	query.Set("hour", strconv.Itoa(hour))
	query.Set("chargerType", chargerType)

	var stations []StationSummary
	if err := c.do(ctx, http.MethodGet, "/api/stations/search?"+query.Encode(), nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// StationDetails returns a station with chargers and the discount active at
// the given time. A zero time means now.
func (c *Client) StationDetails(ctx context.Context, stationID int64, at time.Time) (*StationDetails, error) {
	path := "/api/stations/" + strconv.FormatInt(stationID, 10) + "/details"
	if !at.IsZero() {
		path += "?datetime=" + url.QueryEscape(at.Format(time.RFC3339))
	}

	var details StationDetails
	if err := c.do(ctx, http.MethodGet, path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// CreateStation registers a station. Requires an employee or manager token.
func (c *Client) CreateStation(ctx context.Context, station Station) (*StationDetails, error) {
	var created StationDetails
	if err := c.do(ctx, http.MethodPost, "/api/stations", station, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateCharger attaches a charger to a station.
func (c *Client) CreateCharger(ctx context.Context, charger Charger) (*Charger, error) {
	var created Charger
	if err := c.do(ctx, http.MethodPost, "/api/chargers", charger, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// StationChargers lists a station's chargers.
func (c *Client) StationChargers(ctx context.Context, stationID int64) ([]Charger, error) {
	var chargers []Charger
	if err := c.do(ctx, http.MethodGet, "/api/chargers/station/"+strconv.FormatInt(stationID, 10), nil, &chargers); err != nil {
		return nil, err
	}
	return chargers, nil
}

// AvailableChargers lists all chargers currently available.
func (c *Client) AvailableChargers(ctx context.Context) ([]Charger, error) {
	var chargers []Charger
	if err := c.do(ctx, http.MethodGet, "/api/chargers/available", nil, &chargers); err != nil {
		return nil, err
	}
	return chargers, nil
}

// UpdateChargerStatus transitions a charger, optionally with a maintenance note.
func (c *Client) UpdateChargerStatus(ctx context.Context, chargerID int64, status, note string) (*Charger, error) {
	payload := map[string]string{"status": status, "note": note}
	var charger Charger
	if err := c.do(ctx, http.MethodPut, "/api/chargers/"+strconv.FormatInt(chargerID, 10)+"/status", payload, &charger); err != nil {
		return nil, err
	}
	return &charger, nil
}

// ChargerCountByStatus returns the network-wide count for a status
// (available, in_use, under_maintenance).
func (c *Client) ChargerCountByStatus(ctx context.Context, status string) (*ChargerCount, error) {
	var count ChargerCount
	if err := c.do(ctx, http.MethodGet, "/api/chargers/count/"+url.PathEscape(status)+"/total", nil, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

// CreateReservation books a charger.
func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) (*Reservation, error) {
	var reservation Reservation
	if err := c.do(ctx, http.MethodPost, "/api/reservations", req, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ClientReservations lists a client's reservations.
func (c *Client) ClientReservations(ctx context.Context, clientID int64) ([]Reservation, error) {
	var reservations []Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations/client/"+strconv.FormatInt(clientID, 10), nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// CancelReservation cancels an active reservation.
func (c *Client) CancelReservation(ctx context.Context, reservationID int64) (*Reservation, error) {
	var reservation Reservation
	if err := c.do(ctx, http.MethodDelete, "/api/reservations/"+strconv.FormatInt(reservationID, 10), nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CompleteReservation completes an active reservation.
func (c *Client) CompleteReservation(ctx context.Context, reservationID int64) (*Reservation, error) {
	var reservation Reservation
	if err := c.do(ctx, http.MethodPut, "/api/reservations/"+strconv.FormatInt(reservationID, 10)+"/complete", nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// StationStats returns per-station aggregates since the given time. Requires
// a manager token. A zero time uses the server default.
func (c *Client) StationStats(ctx context.Context, since time.Time) ([]StationStat, error) {
	path := "/api/reservations/stats"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.Format(time.RFC3339))
	}

	var stats []StationStat
	if err := c.do(ctx, http.MethodGet, path, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListDiscounts returns all discounts.
func (c *Client) ListDiscounts(ctx context.Context) ([]Discount, error) {
	var discounts []Discount
	if err := c.do(ctx, http.MethodGet, "/api/discounts", nil, &discounts); err != nil {
		return nil, err
	}
	return discounts, nil
}

// CreateCheckout opens a payment session for a reservation.
func (c *Client) CreateCheckout(ctx context.Context, reservationID int64) (*CheckoutSession, error) {
	payload := map[string]int64{"reservationId": reservationID}
	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/api/payment/create-checkout-session", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// VerifyCheckout confirms a paid session.
func (c *Client) VerifyCheckout(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodGet, "/api/payment/verify-session?session_id="+url.QueryEscape(sessionID), nil, nil)
}
