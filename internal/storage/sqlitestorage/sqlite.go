// Package sqlitestorage implements the storage.Backend interface using
// an in-memory SQLite database with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend via composition; the only SQLite-specific
// concerns are creating the in-memory DB and the dump loop.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pictoseq/engine/internal/config"
	"github.com/pictoseq/engine/internal/database"
	"github.com/pictoseq/engine/internal/storage"
	"github.com/pictoseq/engine/internal/storage/gormstore"

	"gorm.io/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstore.Backend
	db       *gorm.DB
	cfg      config.SQLiteConfig
	log      *slog.Logger
	stopChan chan struct{}
	doneChan chan struct{}
}

func init() {
	storage.Register("sqlite", func(cfg config.StorageConfig) (storage.Backend, error) {
		return New(cfg.SQLite, slog.Default())
	})
}

// New creates a new SQLite storage backend.
func New(cfg config.SQLiteConfig, log *slog.Logger) (*Backend, error) {
	db, err := database.GetSqliteDBStandalone("")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory sqlite: %w", err)
	}
	return &Backend{
		Backend:  gormstore.New(db),
		db:       db,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema and starts the periodic disk dump loop.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	interval := b.cfg.DumpInterval
	if interval <= 0 {
		interval = 3 * time.Minute
	}
	go b.dumpLoop(interval)
	return nil
}

func (b *Backend) dumpLoop(interval time.Duration) {
	defer close(b.doneChan)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
				b.log.Error("Periodic sqlite dump failed", "error", err)
			}
		case <-b.stopChan:
			return
		}
	}
}

// Close stops the dump loop, writes a final dump and closes the DB.
func (b *Backend) Close() error {
	close(b.stopChan)
	<-b.doneChan

	if err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
		b.log.Error("Final sqlite dump failed", "error", err)
	}

	return b.Backend.Close()
}

// GetExportedFilePath returns the disk dump location.
func (b *Backend) GetExportedFilePath() string {
	return b.cfg.DumpPath
}
