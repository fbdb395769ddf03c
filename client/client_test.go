package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/clients/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token": "abc123", "client": {"id": 7, "email": "ana@example.com", "role": "CLIENT"}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	auth, err := c.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.Client.ID != 7 {
		t.Fatalf("unexpected client: %+v", auth.Client)
	}
	if c.token != "abc123" {
		t.Fatalf("token not stored, got %q", c.token)
	}
}

func TestAPIErrorSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "Email already exists"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Signup(context.Background(), SignupRequest{Email: "dup@example.com"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", apiErr.StatusCode)
	}
	if apiErr.Error() != "Email already exists" {
		t.Errorf("message = %q, want verbatim server message", apiErr.Error())
	}
}

func TestAPIErrorGenericWhenBodyUnparseable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListStations(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Error() != "request failed with status 502" {
		t.Errorf("unexpected message %q", apiErr.Error())
	}
}

func TestAuthorizationHeaderSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, WithToken("tok"))
	if _, err := c.ListStations(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
