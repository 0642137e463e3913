package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/Tomlord1122/todo-tracker/internal/filter"
)

// Session is what the client remembers between runs. The file is JSONC, so
// hand-added comments and trailing commas are accepted when reading.
type Session struct {
	UserID string       `json:"userId,omitempty"`
	Filter *filter.Spec `json:"filter,omitempty"`
}

// FilterOrDefault returns the remembered filter, or one that shows everything.
func (s Session) FilterOrDefault() filter.Spec {
	if s.Filter == nil {
		return filter.Default()
	}
	return *s.Filter
}

// LoadSession reads the session at path. A missing file is an empty session.
func LoadSession(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Session{}, fmt.Errorf("invalid session file %s: %w", path, err)
	}

	var s Session
	if err := json.Unmarshal(standardized, &s); err != nil {
		return Session{}, fmt.Errorf("invalid session file %s: %w", path, err)
	}
	return s, nil
}

// Save writes the session atomically, creating the directory when needed.
func (s Session) Save(path string) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	value, err := hujson.Parse(raw)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	value.Format()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(value.Pack())); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}
