package cap

import (
	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/pkg/core"
)

// Result reports which continuation shapes a finished sequence
// satisfies. At most one strict variant flag is set; the checks run in
// generation priority order and stop at the first hit.
type Result struct {
	IsStrictRotated   bool `json:"is_strict_rotated"`
	IsStrictMirrored  bool `json:"is_strict_mirrored"`
	IsStrictSwapped   bool `json:"is_strict_swapped"`
	IsMirroredSwapped bool `json:"is_mirrored_swapped"`
	IsRotatedSwapped  bool `json:"is_rotated_swapped"`
	EndsAtStartPos    bool `json:"ends_at_start_pos"`
	CanBeCAP          bool `json:"can_be_cap"`
}

// Variant returns the name of the matched strict variant, or "".
func (r Result) Variant() Variant {
	switch {
	case r.IsStrictRotated:
		return StrictRotated
	case r.IsStrictMirrored:
		return StrictMirrored
	case r.IsStrictSwapped:
		return StrictSwapped
	case r.IsMirroredSwapped:
		return MirroredSwapped
	case r.IsRotatedSwapped:
		return RotatedSwapped
	}
	return ""
}

// ClassifyCAP inspects a sequence for continuation structure. For each
// variant in priority order it regenerates the second half from the
// sequence's own first half and compares structurally against the
// actual second half. The store may be nil.
func ClassifyCAP(seq core.Sequence, mode core.GridMode, store *overrides.Store) Result {
	var r Result

	r.EndsAtStartPos = seq.FinalPosition() != "" && seq.FinalPosition() == seq.InitialPosition()
	r.CanBeCAP = seq.FinalPosition() != "" && seq.FinalPosition().SameFamily(seq.InitialPosition())

	n := len(seq.Beats)
	if n < 2 || n%2 != 0 {
		return r
	}

	half := core.Sequence{StartPosition: seq.StartPosition, Beats: seq.Beats[:n/2]}
	for _, v := range Variants {
		regen, err := Generate(half, n, v, mode, store)
		if err != nil {
			continue
		}
		if secondHalvesMatch(seq.Beats, regen.Beats, n/2) {
			switch v {
			case StrictRotated:
				r.IsStrictRotated = true
			case StrictMirrored:
				r.IsStrictMirrored = true
			case StrictSwapped:
				r.IsStrictSwapped = true
			case MirroredSwapped:
				r.IsMirroredSwapped = true
			case RotatedSwapped:
				r.IsRotatedSwapped = true
			}
			return r
		}
	}
	return r
}

func secondHalvesMatch(actual, regen []core.Beat, from int) bool {
	for i := from; i < len(actual); i++ {
		if !sameShape(actual[i], regen[i]) {
			return false
		}
	}
	return true
}

// sameShape compares the structural fields the transforms control.
// Orientations are excluded: they follow deterministically from the
// structure and a hand-edited sequence may carry stale ones.
func sameShape(a, b core.Beat) bool {
	return a.StartPos == b.StartPos &&
		a.EndPos == b.EndPos &&
		sameMotionShape(a.Blue, b.Blue) &&
		sameMotionShape(a.Red, b.Red)
}

func sameMotionShape(a, b core.MotionAttributes) bool {
	return a.MotionType == b.MotionType &&
		a.StartLoc == b.StartLoc &&
		a.EndLoc == b.EndLoc &&
		a.PropRotDir == b.PropRotDir &&
		a.Turns == b.Turns
}
