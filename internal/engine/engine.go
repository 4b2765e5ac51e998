// Package engine is the facade over the sequence calculators. It owns
// the loaded alphabet, the override store, the result caches and the
// storage backend, and is the single place where override mutation,
// persistence and cache invalidation happen as one exclusive section.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/pictoseq/engine/internal/cache"
	"github.com/pictoseq/engine/internal/cap"
	"github.com/pictoseq/engine/internal/classify"
	"github.com/pictoseq/engine/internal/dataset"
	"github.com/pictoseq/engine/internal/logging"
	"github.com/pictoseq/engine/internal/model"
	"github.com/pictoseq/engine/internal/orientation"
	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/internal/placement"
	"github.com/pictoseq/engine/internal/prefloat"
	"github.com/pictoseq/engine/internal/queue"
	"github.com/pictoseq/engine/internal/storage"
	"github.com/pictoseq/engine/pkg/core"
)

// saveFlushInterval paces the background sequence writer.
const saveFlushInterval = 2 * time.Second

// Dependencies holds all dependencies needed by the engine service.
type Dependencies struct {
	Dataset     *dataset.Dataset
	Overrides   *overrides.Store
	AnchorCache *cache.AnchorCache
	LetterCache *cache.LetterCache
	LogManager  *logging.SlogManager
	GridMode    core.GridMode
}

// pendingSave is one queued autosave.
type pendingSave struct {
	seq  core.Sequence
	name string
}

// Service provides the engine operations over one editing session.
type Service struct {
	deps    Dependencies
	backend storage.Backend

	// overrideMu serializes override writes: mutate, persist,
	// invalidate as one exclusive section. Reads go through the store's
	// own lock.
	overrideMu sync.Mutex

	saves        *queue.Queue[pendingSave]
	pendingBeats cache.SafeCounter
	stopChan     chan struct{}
	doneChan     chan struct{}
	startMu      sync.Mutex
	started      bool

	classified cache.SafeCounter
	generated  cache.SafeCounter

	writeMu   sync.Mutex
	lastWrite time.Duration
}

// NewService creates a new engine service.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		saves:    queue.New[pendingSave](),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// SetBackend sets the storage backend for sequence persistence.
func (s *Service) SetBackend(b storage.Backend) {
	s.backend = b
}

// BeatKey builds the override store key addressing a beat's bucket.
func (s *Service) BeatKey(b core.Beat) overrides.Key {
	return overrides.Key{
		GridMode:   s.deps.GridMode,
		OriKey:     overrides.OrientationKey(b.Blue.StartOri),
		Letter:     b.Letter,
		TurnsTuple: overrides.BeatTurnsTuple(b),
	}
}

// Classify assigns a letter to the beat, consulting the session letter
// cache first. The cache key is the beat's effective shape, so entries
// stay correct until an override changes prefloat resolution, at which
// point ApplyOverride drops the cache.
func (s *Service) Classify(b core.Beat) (core.Letter, core.LetterType, error) {
	key := s.BeatKey(b)
	blue := prefloat.Effective(b.Blue, s.deps.Overrides, key, core.ColorBlue)
	red := prefloat.Effective(b.Red, s.deps.Overrides, key, core.ColorRed)

	shape := dataset.ShapeKey(b.StartPos, b.EndPos, blue, red)
	if l, ok := s.deps.LetterCache.Get(shape); ok {
		return l, l.TypeOf(), nil
	}

	letter, lt, err := classify.Classify(b, s.deps.Dataset, s.deps.Overrides, key)
	if err != nil {
		return "", "", err
	}
	s.deps.LetterCache.Set(shape, letter)
	s.classified.Inc()
	return letter, lt, nil
}

// ResolveAnchor returns the render anchor for one hand of a beat,
// memoized in the anchor cache.
func (s *Service) ResolveAnchor(b core.Beat, color core.Color) (core.Location, error) {
	key := s.BeatKey(b)
	this := b.Motion(color)
	partner := b.Motion(otherColor(color))

	cacheKey := cache.AnchorKey(key, color, this)
	if loc, ok := s.deps.AnchorCache.Get(cacheKey); ok {
		return loc, nil
	}

	ctx := placement.Context{Letter: b.Letter, GridMode: s.deps.GridMode}
	if b.Letter.CrossShift() && this.MotionType == core.MotionDash {
		// the dash of a cross shift anchors relative to the partner
		// shift's own anchor
		partnerLoc, err := placement.Resolve(partner, this, ctx, s.deps.Overrides, key, otherColor(color))
		if err != nil {
			return "", fmt.Errorf("resolving partner shift anchor: %w", err)
		}
		ctx.ShiftLoc = partnerLoc
	}

	loc, err := placement.Resolve(this, partner, ctx, s.deps.Overrides, key, color)
	if err != nil {
		return "", err
	}
	s.deps.AnchorCache.Set(cacheKey, loc)
	return loc, nil
}

// EndOrientation computes the ending orientation for one hand of a
// beat, resolving float motions through the override store first.
func (s *Service) EndOrientation(b core.Beat, color core.Color) (core.Orientation, error) {
	eff := prefloat.Effective(b.Motion(color), s.deps.Overrides, s.BeatKey(b), color)
	return orientation.EndOrientation(eff)
}

// GenerateCAP extends a partial sequence to target beats using the
// given continuation variant.
func (s *Service) GenerateCAP(seq core.Sequence, target int, v cap.Variant) (core.Sequence, error) {
	out, err := cap.Generate(seq, target, v, s.deps.GridMode, s.deps.Overrides)
	if err != nil {
		return core.Sequence{}, err
	}
	s.generated.Inc()
	return out, nil
}

// VerifyCAP reports which continuation shapes a sequence satisfies.
func (s *Service) VerifyCAP(seq core.Sequence) cap.Result {
	return cap.ClassifyCAP(seq, s.deps.GridMode, s.deps.Overrides)
}

// ApplyOverride records one override entry: write it to the store,
// persist the store, then drop both result caches so nothing stale
// survives. The whole operation is exclusive against other writers.
func (s *Service) ApplyOverride(k overrides.Key, entryKey, value string) error {
	s.overrideMu.Lock()
	defer s.overrideMu.Unlock()

	if err := s.deps.Overrides.Set(k, entryKey, value); err != nil {
		return err
	}
	if err := s.deps.Overrides.Save(); err != nil {
		return fmt.Errorf("persisting override store: %w", err)
	}
	s.invalidateCaches()
	return nil
}

// RemoveOverride deletes one override entry under the same discipline
// as ApplyOverride.
func (s *Service) RemoveOverride(k overrides.Key, entryKey string) error {
	s.overrideMu.Lock()
	defer s.overrideMu.Unlock()

	s.deps.Overrides.Delete(k, entryKey)
	if err := s.deps.Overrides.Save(); err != nil {
		return fmt.Errorf("persisting override store: %w", err)
	}
	s.invalidateCaches()
	return nil
}

func (s *Service) invalidateCaches() {
	s.deps.AnchorCache.Reset()
	s.deps.LetterCache.Reset()
}

// SaveSequence classifies the sequence's continuation structure and
// writes it through the storage backend.
func (s *Service) SaveSequence(seq core.Sequence, name string) (uint, error) {
	if s.backend == nil {
		return 0, fmt.Errorf("no storage backend configured")
	}

	res := s.VerifyCAP(seq)
	start := time.Now()
	id, err := s.backend.SaveSequence(seq, storage.SaveOptions{
		Name:        name,
		GridMode:    s.deps.GridMode,
		CapVariant:  string(res.Variant()),
		EndsAtStart: res.EndsAtStartPos,
	})
	if err != nil {
		return 0, err
	}
	s.setLastWrite(time.Since(start))
	return id, nil
}

// SaveSequenceAsync queues the sequence for the background writer, so
// autosaves never block an edit.
func (s *Service) SaveSequenceAsync(seq core.Sequence, name string) {
	s.saves.Push(pendingSave{seq: seq, name: name})
	s.pendingBeats.Add(len(seq.Beats))

	s.startMu.Lock()
	if !s.started {
		s.started = true
		go s.flushLoop()
	}
	s.startMu.Unlock()
}

func (s *Service) flushLoop() {
	defer close(s.doneChan)
	ticker := time.NewTicker(saveFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.flushSaves()
		case <-s.stopChan:
			s.flushSaves()
			return
		}
	}
}

func (s *Service) flushSaves() {
	pending := s.saves.GetAndEmpty()
	if len(pending) == 0 {
		return
	}
	for _, p := range pending {
		if _, err := s.SaveSequence(p.seq, p.name); err != nil {
			s.logger().Error("Failed to save queued sequence", "name", p.name, "error", err)
		}
		s.pendingBeats.Add(-len(p.seq.Beats))
	}
}

// Close drains the save queue and stops the background writer. Safe to
// call when SaveSequenceAsync was never used.
func (s *Service) Close() {
	s.startMu.Lock()
	started := s.started
	s.started = false
	s.startMu.Unlock()

	if !started {
		return
	}
	close(s.stopChan)
	<-s.doneChan
}

// QueueLengths reports the pending autosave load, for monitoring.
func (s *Service) QueueLengths() model.QueueLengths {
	return model.QueueLengths{
		Sequences: uint16(s.saves.Len()),
		Beats:     uint16(s.pendingBeats.Value()),
	}
}

// CacheSizes reports the result cache entry counts, for monitoring.
func (s *Service) CacheSizes() (anchors, letters int) {
	return s.deps.AnchorCache.Len(), s.deps.LetterCache.Len()
}

// Counters reports how many classifications and generations this
// session has run.
func (s *Service) Counters() (classified, generated int) {
	return s.classified.Value(), s.generated.Value()
}

// LastWriteDuration is the duration of the most recent backend write.
func (s *Service) LastWriteDuration() time.Duration {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.lastWrite
}

func (s *Service) setLastWrite(d time.Duration) {
	s.writeMu.Lock()
	s.lastWrite = d
	s.writeMu.Unlock()
}

func (s *Service) logger() interface {
	Error(msg string, args ...any)
} {
	if s.deps.LogManager != nil {
		return s.deps.LogManager.Logger()
	}
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

func otherColor(c core.Color) core.Color {
	if c == core.ColorBlue {
		return core.ColorRed
	}
	return core.ColorBlue
}
