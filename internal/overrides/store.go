// Package overrides holds the persisted override store: manually
// recorded prefloat attributes and arrow placement overrides, keyed by
// grid mode, starting orientation category, letter and turns tuple.
//
// The store is an explicit context object passed into every calculator
// call. Reads take a shared lock and are safe from any goroutine; writes
// happen only through explicit interactive override actions and must be
// serialized by the owner (mutate, persist, invalidate caches as one
// exclusive section).
package overrides

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pictoseq/engine/pkg/core"
)

// Entry keys within one turns-tuple bucket. Color-specific keys append
// "_blue" or "_red".
const (
	KeyArrowLoc           = "arrow_loc"
	KeyPrefloatMotionType = "prefloat_motion_type"
	KeyPrefloatPropRotDir = "prefloat_prop_rot_dir"
)

// ColorKey builds the color-qualified entry key, e.g. "arrow_loc_blue".
func ColorKey(base string, c core.Color) string {
	return base + "_" + string(c)
}

// OrientationKey buckets a starting orientation by category. The two
// values are part of the persisted file shape and must not change.
func OrientationKey(start core.Orientation) string {
	if start.Category() == core.CategoryRadial {
		return "from_radial"
	}
	return "from_nonradial"
}

// TurnsTupleKey canonically encodes the direction category and both
// colors' turn counts, e.g. "(s, 0.5, 1)" for same-direction rotation or
// "(o, fl, 2)" for opposite. When either motion has no rotation sense the
// category is omitted: "(0, 1)". The format is shared with existing
// stores and must be reproduced exactly.
func TurnsTupleKey(blueDir, redDir core.RotationDirection, blueTurns, redTurns core.Turns) string {
	turns := blueTurns.String() + ", " + redTurns.String()
	if blueDir == core.NoRotation || redDir == core.NoRotation {
		return "(" + turns + ")"
	}
	if blueDir == redDir {
		return "(s, " + turns + ")"
	}
	return "(o, " + turns + ")"
}

// BeatTurnsTuple builds the turns tuple key for a whole beat.
func BeatTurnsTuple(b core.Beat) string {
	return TurnsTupleKey(b.Blue.PropRotDir, b.Red.PropRotDir, b.Blue.Turns, b.Red.Turns)
}

// Key addresses one entry bucket in the store.
type Key struct {
	GridMode   core.GridMode
	OriKey     string
	Letter     core.Letter
	TurnsTuple string
}

func (k Key) validate() error {
	if k.GridMode == "" || k.OriKey == "" || k.Letter == "" || k.TurnsTuple == "" {
		return fmt.Errorf("override key incomplete: %+v", k)
	}
	if !strings.HasPrefix(k.TurnsTuple, "(") {
		return fmt.Errorf("override key turns tuple %q not canonical", k.TurnsTuple)
	}
	return nil
}

// bucket is one turns-tuple entry set: override key -> value.
type bucket map[string]string

// data mirrors the persisted file shape:
// [gridMode][oriKey][letter][turnsTuple] -> {entryKey: value}.
type data map[core.GridMode]map[string]map[core.Letter]map[string]bucket

// Store is the in-memory override table plus its file path.
type Store struct {
	mu   sync.RWMutex
	path string
	data data
}

// NewStore creates an empty store that persists to path.
func NewStore(path string) *Store {
	return &Store{path: path, data: data{}}
}

// Path returns the file the store persists to.
func (s *Store) Path() string { return s.path }

// Get reads one entry. The second return is false when any level of the
// key is absent.
func (s *Store) Get(k Key, entryKey string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.lookup(k)
	if !ok {
		return "", false
	}
	v, ok := b[entryKey]
	return v, ok
}

func (s *Store) lookup(k Key) (bucket, bool) {
	byOri, ok := s.data[k.GridMode]
	if !ok {
		return nil, false
	}
	byLetter, ok := byOri[k.OriKey]
	if !ok {
		return nil, false
	}
	byTuple, ok := byLetter[k.Letter]
	if !ok {
		return nil, false
	}
	b, ok := byTuple[k.TurnsTuple]
	return b, ok
}

// Set writes one entry in memory. The caller owns persistence.
func (s *Store) Set(k Key, entryKey, value string) error {
	if err := k.validate(); err != nil {
		return err
	}
	if entryKey == "" {
		return fmt.Errorf("override entry key is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	byOri, ok := s.data[k.GridMode]
	if !ok {
		byOri = map[string]map[core.Letter]map[string]bucket{}
		s.data[k.GridMode] = byOri
	}
	byLetter, ok := byOri[k.OriKey]
	if !ok {
		byLetter = map[core.Letter]map[string]bucket{}
		byOri[k.OriKey] = byLetter
	}
	byTuple, ok := byLetter[k.Letter]
	if !ok {
		byTuple = map[string]bucket{}
		byLetter[k.Letter] = byTuple
	}
	b, ok := byTuple[k.TurnsTuple]
	if !ok {
		b = bucket{}
		byTuple[k.TurnsTuple] = b
	}
	b[entryKey] = value
	return nil
}

// Delete removes one entry, pruning empty buckets.
func (s *Store) Delete(k Key, entryKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.lookup(k)
	if !ok {
		return
	}
	delete(b, entryKey)
	if len(b) == 0 {
		delete(s.data[k.GridMode][k.OriKey][k.Letter], k.TurnsTuple)
	}
}

// Len counts stored entries across all buckets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, byOri := range s.data {
		for _, byLetter := range byOri {
			for _, byTuple := range byLetter {
				for _, b := range byTuple {
					n += len(b)
				}
			}
		}
	}
	return n
}
