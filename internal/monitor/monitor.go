// Package monitor samples the engine's runtime state on a fixed
// interval: autosave queue lengths, result cache sizes and the last
// backend write duration. Samples go to a status file, to the storage
// backend when it records performance rows, and to InfluxDB when a
// manager is wired.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/pictoseq/engine/internal/engine"
	"github.com/pictoseq/engine/internal/influx"
	"github.com/pictoseq/engine/internal/logging"
	"github.com/pictoseq/engine/internal/model"
)

// performanceBucket is the InfluxDB bucket performance points land in.
const performanceBucket = "engine_performance"

// PerformanceRecorder is implemented by storage backends that persist
// performance samples.
type PerformanceRecorder interface {
	RecordPerformance(model.EnginePerformance) error
}

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	Engine     *engine.Service
	LogManager *logging.SlogManager

	// Recorder may be nil; so may Influx. Each sink is skipped when
	// absent.
	Recorder PerformanceRecorder
	Influx   *influx.Manager

	// StatusDir is where status.txt is written.
	StatusDir string
	Interval  time.Duration
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetProgramStatus returns the current engine status as printable JSON
// blocks plus the performance model the sample is built from.
func (s *Service) GetProgramStatus(
	writeQueues bool,
	caches bool,
	lastWrite bool,
) (output []string, perf model.EnginePerformance) {
	anchors, letters := s.deps.Engine.CacheSizes()

	perf = model.EnginePerformance{
		Time:                time.Now(),
		QueueLengths:        s.deps.Engine.QueueLengths(),
		AnchorCacheEntries:  anchors,
		LetterCacheEntries:  letters,
		LastWriteDurationMs: float32(s.deps.Engine.LastWriteDuration().Milliseconds()),
	}

	if writeQueues {
		output = append(output, marshalBlock(perf.QueueLengths))
	}
	if caches {
		output = append(output, marshalBlock(map[string]int{
			"anchorCacheEntries": anchors,
			"letterCacheEntries": letters,
		}))
	}
	if lastWrite {
		output = append(output, marshalBlock(perf.LastWriteDurationMs))
	}

	return output, perf
}

func marshalBlock(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "%s"}`, err)
	}
	return string(raw)
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				statusStr, perf := s.GetProgramStatus(true, true, true)

				if statusFile != nil {
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					for _, line := range statusStr {
						statusFile.WriteString(line + "\n")
					}
				}

				if s.deps.Recorder != nil {
					if err := s.deps.Recorder.RecordPerformance(perf); err != nil {
						logger.Error("Error writing performance sample", "error", err)
					}
				}

				s.writeInfluxPoint(perf, logger)
			}
		}
	}()

	return nil
}

func (s *Service) writeInfluxPoint(perf model.EnginePerformance, logger interface {
	Error(msg string, args ...any)
}) {
	if s.deps.Influx == nil {
		return
	}

	point := influxdb2.NewPointWithMeasurement("engine_performance").
		AddField("queue_sequences", int(perf.QueueLengths.Sequences)).
		AddField("queue_beats", int(perf.QueueLengths.Beats)).
		AddField("anchor_cache_entries", perf.AnchorCacheEntries).
		AddField("letter_cache_entries", perf.LetterCacheEntries).
		AddField("last_write_duration_ms", float64(perf.LastWriteDurationMs)).
		SetTime(perf.Time)

	if err := s.deps.Influx.WritePoint(context.Background(), performanceBucket, point); err != nil {
		logger.Error("Error writing performance point to InfluxDB", "error", err)
	}
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
