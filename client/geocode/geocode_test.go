package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveFirstMatchWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Lisbon" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat": "38.7223", "lon": "-9.1393", "display_name": "Lisboa, Portugal"},
			{"lat": "40.0000", "lon": "-8.0000", "display_name": "Somewhere else"}
		]`))
	}))
	defer server.Close()

	resolver := NewResolver(WithBaseURL(server.URL))
	result, err := resolver.Resolve(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Latitude != 38.7223 || result.Longitude != -9.1393 {
		t.Fatalf("unexpected coordinates: %+v", result)
	}
	if result.DisplayName != "Lisboa, Portugal" {
		t.Fatalf("unexpected display name: %s", result.DisplayName)
	}
}

func TestResolveNoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	resolver := NewResolver(WithBaseURL(server.URL))
	_, err := resolver.Resolve(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resolver := NewResolver(WithBaseURL(server.URL))
	_, err := resolver.Resolve(context.Background(), "Lisbon")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("transport failure must not be reported as not found")
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	resolver := NewResolver()
	if _, err := resolver.Resolve(context.Background(), "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
