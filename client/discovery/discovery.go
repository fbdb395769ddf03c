// Package discovery finds charging stations near a location, annotated with
// distance and availability.
package discovery

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"chargenet/client"
	"chargenet/client/geo"
)

// ErrStale is returned when a newer search superseded this one while its
// detail fetches were in flight.
var ErrStale = errors.New("search superseded by a newer one")

// DefaultImageURL is used for stations without a picture.
const DefaultImageURL = "https://upload.wikimedia.org/wikipedia/commons/5/5f/EV_charging_station.jpg"

// API is the slice of the REST client used by the searcher.
type API interface {
	ListStations(ctx context.Context) ([]client.StationSummary, error)
	SearchStations(ctx context.Context, dayOfWeek, hour int, chargerType string) ([]client.StationSummary, error)
	StationDetails(ctx context.Context, stationID int64, at time.Time) (*client.StationDetails, error)
}

// Station is a discovered station with user-relative annotations.
type Station struct {
	Details         client.StationDetails
	DiscountPercent *float64
	DistanceKm      float64
	Distance        string
	AvailableCount  int
	ImageURL        string
}

// Query describes one search.
type Query struct {
	Latitude  float64
	Longitude float64
	// ChargerTypes filters stations by offered charger types. Empty means
	// no filter: all stations are listed.
	ChargerTypes []string
	// At is the desired charging time; zero means now.
	At time.Time
}

// Searcher runs the discovery pipeline. Concurrent searches are versioned:
// only the most recently started search is allowed to return results, so a
// slow early search can never clobber a newer one.
type Searcher struct {
	api     API
	version atomic.Uint64
}

// NewSearcher builds a Searcher.
func NewSearcher(api API) *Searcher {
	return &Searcher{api: api}
}

// Search finds stations matching the query, nearest first. Stations whose
// detail fetch fails are dropped; the remaining results are still returned.
func (s *Searcher) Search(ctx context.Context, q Query) ([]Station, error) {
	version := s.version.Add(1)

	at := q.At
	if at.IsZero() {
		at = time.Now()
	}

	summaries, err := s.lookup(ctx, q, at)
	if err != nil {
		return nil, err
	}

	details := s.fetchDetails(ctx, summaries, at)

	if s.version.Load() != version {
		return nil, ErrStale
	}

	results := make([]Station, 0, len(details))
	for i, d := range details {
		if d == nil {
			continue
		}
		km := geo.DistanceKm(q.Latitude, q.Longitude, d.Latitude, d.Longitude)
		station := Station{
			Details:         *d,
			DiscountPercent: d.DiscountPercent,
			DistanceKm:      km,
			Distance:        geo.Format(km),
			AvailableCount:  countAvailable(d.Chargers),
			ImageURL:        d.ImageURL,
		}
		if station.DiscountPercent == nil {
			station.DiscountPercent = summaries[i].DiscountPercent
		}
		if station.ImageURL == "" {
			station.ImageURL = DefaultImageURL
		}
		results = append(results, station)
	}

	// Stable so equidistant stations keep their merge order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	return results, nil
}

// lookup produces the de-duplicated summary list. Filtered searches query the
// slot endpoint once per charger type and merge by station id, first
// occurrence wins.
func (s *Searcher) lookup(ctx context.Context, q Query, at time.Time) ([]client.StationSummary, error) {
	if len(q.ChargerTypes) == 0 {
		return s.api.ListStations(ctx)
	}

	day := isoWeekday(at)
	hour := at.Hour()

	var merged []client.StationSummary
	seen := make(map[int64]struct{})
	for _, chargerType := range q.ChargerTypes {
		summaries, err := s.api.SearchStations(ctx, day, hour, chargerType)
		if err != nil {
			return nil, err
		}
		for _, summary := range summaries {
			if _, ok := seen[summary.ID]; ok {
				continue
			}
			seen[summary.ID] = struct{}{}
			merged = append(merged, summary)
		}
	}
	return merged, nil
}

// fetchDetails fans out one detail request per station and waits for all of
// them to settle. Failed fetches leave a nil slot.
func (s *Searcher) fetchDetails(ctx context.Context, summaries []client.StationSummary, at time.Time) []*client.StationDetails {
	details := make([]*client.StationDetails, len(summaries))

	var wg sync.WaitGroup
	for i, summary := range summaries {
		wg.Add(1)
		go func(i int, stationID int64) {
			defer wg.Done()
			d, err := s.api.StationDetails(ctx, stationID, at)
			if err != nil {
				return
			}
			details[i] = d
		}(i, summary.ID)
	}
	wg.Wait()

	return details
}

func countAvailable(chargers []client.Charger) int {
	count := 0
	for _, c := range chargers {
		if c.Status == "AVAILABLE" {
			count++
		}
	}
	return count
}

// isoWeekday maps time.Weekday to ISO 8601 numbering (1=Monday .. 7=Sunday).
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}
