// Package session persists the logged-in client between CLI invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned when no one is logged in.
var ErrNoSession = errors.New("no active session")

// Session is the persisted login state.
type Session struct {
	Token    string  `json:"token"`
	ClientID int64   `json:"clientId"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Battery  float64 `json:"batteryCapacityKwh"`
	RangeKm  float64 `json:"fullRangeKm"`
}

// Store reads and writes sessions.
type Store interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// FileStore keeps the session in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore builds a store at the given path. An empty path defaults to
// $HOME/.chargenet/session.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".chargenet", "session.json")
	}
	return &FileStore{path: path}, nil
}

// Load reads the current session.
func (s *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("session file corrupted: %w", err)
	}
	if session.Token == "" || session.ClientID == 0 {
		return nil, ErrNoSession
	}
	return &session, nil
}

// Save writes the session, creating the parent directory if needed.
func (s *FileStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the session file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
