package session

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession before save, got %v", err)
	}

	saved := &Session{Token: "tok", ClientID: 42, Email: "ana@example.com", Role: "CLIENT"}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ClientID != 42 || loaded.Token != "tok" || loaded.Email != "ana@example.com" {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
}

func TestFileStoreRejectsIncompleteSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save(&Session{Token: "tok"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for incomplete session, got %v", err)
	}
}
