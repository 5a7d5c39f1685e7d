// Package store persists the serialized session record. A store holds
// exactly one slot; every write replaces the whole record.
package store

import "github.com/meshsite/planner/pkg/core"

// ErrNoSession is returned by Read when the slot holds no record.
var ErrNoSession = core.ErrNoSession

// Store is the interface all session storage backends must satisfy.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Record access
	Write(payload []byte) error
	Read() ([]byte, error)
	Delete() error
	Exists() (bool, error)
}
