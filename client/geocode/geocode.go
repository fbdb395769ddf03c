// Package geocode resolves free-form location text to coordinates using a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the query matches no location.
var ErrNotFound = errors.New("location not found")

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// HTTPDoer defines the http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Result is a resolved location.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Resolver performs forward geocoding. The first match wins; no retries.
type Resolver struct {
	baseURL   string
	http      HTTPDoer
	userAgent string
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithBaseURL points the resolver at a different Nominatim-compatible host.
func WithBaseURL(baseURL string) Option {
	return func(r *Resolver) { r.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(r *Resolver) { r.http = doer }
}

// NewResolver builds a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		userAgent: "chargenet-client",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first match for the query.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var matches []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("geocoding response malformed: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(matches[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding response malformed: %w", err)
	}
	lng, err := strconv.ParseFloat(matches[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding response malformed: %w", err)
	}

	return &Result{Latitude: lat, Longitude: lng, DisplayName: matches[0].DisplayName}, nil
}
