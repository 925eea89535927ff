// Package auth persists the operator's token pair between CLI invocations.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

// ErrNoSession is returned when no session has been saved yet.
var ErrNoSession = errors.New("no saved session; run login first")

// FileStore saves the session as a 0600 JSON file under the data dir.
type FileStore struct {
	path string
}

// NewFileStore creates a store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the session, creating the parent directory if needed.
func (s *FileStore) Save(session saas.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads the saved session.
func (s *FileStore) Load() (saas.Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return saas.Session{}, ErrNoSession
		}
		return saas.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var session saas.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return saas.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	if session.Access == "" {
		return saas.Session{}, ErrNoSession
	}
	return session, nil
}

// Clear removes the saved session. Missing files are not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
