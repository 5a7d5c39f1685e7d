// Package file implements the session store as a single JSON file on
// disk. Writes go through a temp file and rename so a crash mid-write
// never corrupts the previous record.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meshsite/planner/pkg/core"
)

// Backend stores the session record in a file under Dir.
type Backend struct {
	dir  string
	slot string
}

// New creates a new file backend writing <dir>/<slot>.json.
func New(dir, slot string) *Backend {
	return &Backend{dir: dir, slot: slot}
}

func (b *Backend) path() string {
	return filepath.Join(b.dir, b.slot+".json")
}

// Init creates the storage directory if needed.
func (b *Backend) Init() error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// Write replaces the stored record.
func (b *Backend) Write(payload []byte) error {
	tmp, err := os.CreateTemp(b.dir, b.slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing session file: %w", err)
	}

	if err := os.Rename(tmpName, b.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Read returns the stored record.
func (b *Backend) Read() ([]byte, error) {
	payload, err := os.ReadFile(b.path())
	if os.IsNotExist(err) {
		return nil, core.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	return payload, nil
}

// Delete removes the stored record. Deleting an absent record is not
// an error.
func (b *Backend) Delete() error {
	err := os.Remove(b.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting session file: %w", err)
	}
	return nil
}

// Exists reports whether a record is stored.
func (b *Backend) Exists() (bool, error) {
	_, err := os.Stat(b.path())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
