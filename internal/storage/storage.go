// internal/storage/storage.go
package storage

import (
	"errors"
	"time"

	"github.com/pictoseq/engine/pkg/core"
)

// ErrNotFound marks a lookup of a sequence id the backend does not hold.
var ErrNotFound = errors.New("sequence not found")

// SaveOptions carries the summary fields recorded alongside a sequence.
type SaveOptions struct {
	Name        string
	GridMode    core.GridMode
	CapVariant  string
	EndsAtStart bool
}

// Metadata is the stored summary of one sequence, returned by listings
// without materializing the beats.
type Metadata struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Word        string        `json:"word"`
	GridMode    core.GridMode `json:"gridMode"`
	Length      int           `json:"length"`
	CapVariant  string        `json:"capVariant"`
	EndsAtStart bool          `json:"endsAtStart"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Sequence persistence (returns the assigned id)
	SaveSequence(seq core.Sequence, opts SaveOptions) (uint, error)
	GetSequence(id uint) (core.Sequence, Metadata, error)
	ListSequences() ([]Metadata, error)
	DeleteSequence(id uint) error
}

// Exportable is an optional interface for storage backends that write a
// file snapshot of their contents on close.
type Exportable interface {
	GetExportedFilePath() string
}
