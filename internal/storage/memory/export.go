// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// exportFile is the shape of the JSON snapshot written on close.
type exportFile struct {
	ExportedAt time.Time       `json:"exportedAt"`
	Count      int             `json:"count"`
	Sequences  []SequenceEntry `json:"sequences"`
}

// exportJSON writes every held sequence to a timestamped file in the
// output directory. Caller holds the write lock.
func (b *Backend) exportJSON() error {
	if len(b.sequences) == 0 {
		return nil
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	entries := make([]SequenceEntry, 0, len(b.sequences))
	for _, e := range b.sequences {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Meta.ID < entries[j].Meta.ID })

	out := exportFile{
		ExportedAt: time.Now().UTC(),
		Count:      len(entries),
		Sequences:  entries,
	}

	name := fmt.Sprintf("sequences_%s.json", out.ExportedAt.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	path := filepath.Join(b.cfg.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		enc := json.NewEncoder(gz)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			gz.Close()
			return fmt.Errorf("encoding export: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("closing gzip stream: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}
	}

	b.exportedPath = path
	return nil
}
