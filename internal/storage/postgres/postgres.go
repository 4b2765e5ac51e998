// Package postgres implements the storage.Backend interface using
// GORM/PostgreSQL, falling back to a local SQLite database when the
// server is unreachable. Performance samples are queued and written by
// a background flusher so the editing path never waits on them.
package postgres

import (
	"log/slog"
	"time"

	"github.com/rs/zerolog"

	"github.com/pictoseq/engine/internal/config"
	"github.com/pictoseq/engine/internal/database"
	"github.com/pictoseq/engine/internal/model"
	"github.com/pictoseq/engine/internal/queue"
	"github.com/pictoseq/engine/internal/storage"
	"github.com/pictoseq/engine/internal/storage/gormstore"
)

// flushInterval paces the background performance writer.
const flushInterval = 10 * time.Second

// Backend wraps the GORM backend over a managed server connection.
type Backend struct {
	*gormstore.Backend
	manager  *database.Manager
	log      *slog.Logger
	perf     *queue.Queue[model.EnginePerformance]
	stopChan chan struct{}
	doneChan chan struct{}
}

func init() {
	storage.Register("postgres", func(cfg config.StorageConfig) (storage.Backend, error) {
		return New(slog.Default(), zerolog.Nop())
	})
}

// New connects to the configured server. Connection parameters come
// from the db.* config keys; a failed connection falls back to local
// SQLite inside the database manager.
func New(log *slog.Logger, dbLog zerolog.Logger) (*Backend, error) {
	manager := database.NewManager(dbLog)
	if err := manager.Connect(); err != nil {
		return nil, err
	}
	return &Backend{
		Backend:  gormstore.New(manager.DB),
		manager:  manager,
		log:      log,
		perf:     queue.New[model.EnginePerformance](),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema and starts the performance flusher.
func (b *Backend) Init() error {
	if err := b.manager.Setup(); err != nil {
		return err
	}
	if err := b.Backend.Init(); err != nil {
		return err
	}
	go b.flushLoop()
	return nil
}

// QueuePerformance enqueues one performance sample for batch insertion.
func (b *Backend) QueuePerformance(p model.EnginePerformance) {
	b.perf.Push(p)
}

func (b *Backend) flushLoop() {
	defer close(b.doneChan)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.flushPerformance()
		case <-b.stopChan:
			b.flushPerformance()
			return
		}
	}
}

func (b *Backend) flushPerformance() {
	samples := b.perf.GetAndEmpty()
	if len(samples) == 0 {
		return
	}
	start := time.Now()
	if err := b.manager.DB.CreateInBatches(samples, 1000).Error; err != nil {
		b.log.Error("Failed to flush performance samples", "error", err, "count", len(samples))
		return
	}
	b.log.Debug("Flushed performance samples",
		"count", len(samples), "duration", time.Since(start))
}

// Close stops the flusher and closes the connection.
func (b *Backend) Close() error {
	close(b.stopChan)
	<-b.doneChan
	return b.Backend.Close()
}
