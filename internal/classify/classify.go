// Package classify assigns a letter to a beat by structural match
// against the reference alphabet.
package classify

import (
	"errors"
	"fmt"

	"github.com/pictoseq/engine/internal/dataset"
	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/internal/prefloat"
	"github.com/pictoseq/engine/pkg/core"
)

// ErrUnclassified marks a beat that matched no alphabet template. The
// caller leaves the letter blank and moves on.
var ErrUnclassified = errors.New("pictograph matches no letter")

// Classify resolves both hands' float motions, then matches the beat's
// positions and motion patterns against the alphabet. At most one
// template can match because the dataset is shape-disjoint. The store
// may be nil when no override session exists.
func Classify(b core.Beat, ds *dataset.Dataset, store *overrides.Store, key overrides.Key) (core.Letter, core.LetterType, error) {
	if ds == nil {
		return "", "", errors.New("classify needs a loaded alphabet dataset")
	}

	blue := prefloat.Effective(b.Blue, store, key, core.ColorBlue)
	red := prefloat.Effective(b.Red, store, key, core.ColorRed)

	tpl, ok := ds.Match(b.StartPos, b.EndPos, blue, red)
	if !ok {
		return "", "", fmt.Errorf("%w: %s -> %s", ErrUnclassified, b.StartPos, b.EndPos)
	}
	return tpl.Letter, tpl.Letter.TypeOf(), nil
}
