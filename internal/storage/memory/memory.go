// internal/storage/memory/memory.go
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/pictoseq/engine/internal/config"
	"github.com/pictoseq/engine/internal/model/convert"
	"github.com/pictoseq/engine/internal/storage"
	"github.com/pictoseq/engine/pkg/core"
)

// SequenceEntry groups a sequence with its stored summary
type SequenceEntry struct {
	Meta     storage.Metadata `json:"meta"`
	Sequence core.Sequence    `json:"sequence"`
}

// Backend stores sequences in memory and exports to JSON on close
type Backend struct {
	cfg config.MemoryConfig

	sequences map[uint]*SequenceEntry // keyed by assigned id

	idCounter    uint
	exportedPath string
	mu           sync.RWMutex
}

func init() {
	storage.Register("memory", func(cfg config.StorageConfig) (storage.Backend, error) {
		return New(cfg.Memory), nil
	})
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:       cfg,
		sequences: make(map[uint]*SequenceEntry),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close exports the held sequences to the output directory
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.exportJSON()
}

// SaveSequence stores a sequence and assigns it an id
func (b *Backend) SaveSequence(seq core.Sequence, opts storage.SaveOptions) (uint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	entry := &SequenceEntry{
		Meta: storage.Metadata{
			ID:          b.idCounter,
			Name:        opts.Name,
			Word:        convert.Word(seq),
			GridMode:    opts.GridMode,
			Length:      len(seq.Beats),
			CapVariant:  opts.CapVariant,
			EndsAtStart: opts.EndsAtStart,
			CreatedAt:   time.Now().UTC(),
		},
		Sequence: seq,
	}
	b.sequences[b.idCounter] = entry
	return b.idCounter, nil
}

// GetSequence retrieves a stored sequence by id
func (b *Backend) GetSequence(id uint) (core.Sequence, storage.Metadata, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.sequences[id]
	if !ok {
		return core.Sequence{}, storage.Metadata{}, storage.ErrNotFound
	}
	return entry.Sequence, entry.Meta, nil
}

// ListSequences returns summaries of every stored sequence, oldest first
func (b *Backend) ListSequences() ([]storage.Metadata, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]storage.Metadata, 0, len(b.sequences))
	for _, entry := range b.sequences {
		out = append(out, entry.Meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteSequence removes a stored sequence
func (b *Backend) DeleteSequence(id uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sequences[id]; !ok {
		return storage.ErrNotFound
	}
	delete(b.sequences, id)
	return nil
}

// GetExportedFilePath returns the path written by the last export, or ""
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}
