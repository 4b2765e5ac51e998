package cap

import (
	"fmt"

	"github.com/pictoseq/engine/internal/geometry"
	"github.com/pictoseq/engine/internal/orientation"
	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/internal/prefloat"
	"github.com/pictoseq/engine/pkg/core"
)

// Generate extends a partial sequence to target beats using the given
// continuation variant. The input is not modified; the returned
// sequence carries freshly numbered beats and the reattached start
// position pseudo beat when one was present. The store may be nil.
func Generate(seq core.Sequence, target int, v Variant, mode core.GridMode, store *overrides.Store) (core.Sequence, error) {
	strat, err := strategyFor(v)
	if err != nil {
		return core.Sequence{}, err
	}

	n := len(seq.Beats)
	if n < 1 || n >= target {
		return core.Sequence{}, fmt.Errorf("continuation needs 1 <= beats < target, have %d of %d", n, target)
	}
	if n*2 < target {
		return core.Sequence{}, fmt.Errorf("partial must contain the full first half: have %d beats toward %d", n, target)
	}

	beats := make([]core.Beat, n, target)
	copy(beats, seq.Beats)

	for next := n + 1; next <= target; next++ {
		idx := strat.indexMap(next, target)
		if idx < 0 || idx >= len(beats) {
			// unreachable once the half-length precondition holds; every
			// variant maps into the completed first half
			panic(fmt.Sprintf("%s index map broke its bounds: beat %d of %d maps to %d", v, next, target, idx))
		}

		nb, err := strat.transform(beats[idx])
		if err != nil {
			return core.Sequence{}, fmt.Errorf("transforming beat %d for %s continuation: %w", idx+1, v, err)
		}
		nb.BeatNumber = next
		nb.StartPos = beats[next-2].EndPos

		endPos, err := geometry.Combine(nb.Blue.EndLoc, nb.Red.EndLoc)
		if err != nil {
			return core.Sequence{}, fmt.Errorf("combining beat %d endpoints: %w", next, err)
		}
		nb.EndPos = endPos

		for _, color := range []core.Color{core.ColorBlue, core.ColorRed} {
			m := nb.Motion(color)
			m = dropInconsistentPrefloat(m)
			m.StartOri = carryOrientation(beats[next-2].Motion(color), m)

			eff := prefloat.Effective(m, store, beatKey(mode, nb), color)
			endOri, err := orientation.EndOrientation(eff)
			if err != nil {
				return core.Sequence{}, fmt.Errorf("beat %d %s orientation: %w", next, color, err)
			}
			m.EndOri = endOri
			nb.SetMotion(color, m)
		}

		beats = append(beats, nb)
	}

	out := core.Sequence{Beats: beats}
	if seq.StartPosition != nil {
		sp := *seq.StartPosition
		sp.BeatNumber = 0
		out.StartPosition = &sp
	}
	return out, nil
}

// dropInconsistentPrefloat clears prefloat metadata that survived a
// transform onto a motion which is not a float. Non-fatal; the metadata
// is simply meaningless there.
func dropInconsistentPrefloat(m core.MotionAttributes) core.MotionAttributes {
	if m.MotionType != core.MotionFloat && m.HasPrefloat() {
		return m.ClearPrefloat()
	}
	return m
}

// carryOrientation keeps each hand's orientation continuous: a new beat
// starts where the previous one ended, falling back to the transformed
// source's own start orientation at the seam when the previous beat has
// none recorded.
func carryOrientation(prev, transformed core.MotionAttributes) core.Orientation {
	if prev.EndOri != "" {
		return prev.EndOri
	}
	return transformed.StartOri
}

func beatKey(mode core.GridMode, b core.Beat) overrides.Key {
	return overrides.Key{
		GridMode:   mode,
		OriKey:     overrides.OrientationKey(b.Blue.StartOri),
		Letter:     b.Letter,
		TurnsTuple: overrides.BeatTurnsTuple(b),
	}
}
