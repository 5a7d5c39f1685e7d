// Package memory implements the session store in process memory.
// Primarily a test double; nothing survives a restart.
package memory

import (
	"sync"

	"github.com/meshsite/planner/pkg/core"
)

// Backend stores the session record in memory.
type Backend struct {
	mu      sync.RWMutex
	payload []byte
}

// New creates a new memory backend.
func New() *Backend {
	return &Backend{}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// Write replaces the stored record.
func (b *Backend) Write(payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payload = append([]byte(nil), payload...)
	return nil
}

// Read returns a copy of the stored record.
func (b *Backend) Read() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.payload == nil {
		return nil, core.ErrNoSession
	}
	return append([]byte(nil), b.payload...), nil
}

// Delete removes the stored record.
func (b *Backend) Delete() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payload = nil
	return nil
}

// Exists reports whether a record is stored.
func (b *Backend) Exists() (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.payload != nil, nil
}
