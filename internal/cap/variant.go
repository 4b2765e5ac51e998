// Package cap generates and verifies continuation patterns: sequences
// whose second half is a geometric image of their first half and which
// return to their starting position.
package cap

import (
	"fmt"

	"github.com/pictoseq/engine/internal/geometry"
	"github.com/pictoseq/engine/pkg/core"
)

// Variant names one continuation transform.
type Variant string

const (
	StrictRotated   Variant = "strict_rotated"
	StrictMirrored  Variant = "strict_mirrored"
	StrictSwapped   Variant = "strict_swapped"
	MirroredSwapped Variant = "mirrored_swapped"
	RotatedSwapped  Variant = "rotated_swapped"
)

// Variants lists every variant in generation priority order. The
// verifier short-circuits through the same order.
var Variants = []Variant{
	StrictRotated, StrictMirrored, StrictSwapped, MirroredSwapped, RotatedSwapped,
}

// strategy supplies the two hooks the shared generation skeleton needs:
// which first-half beat feeds each new beat, and how its fields are
// transformed. Both hooks are pure.
type strategy interface {
	// indexMap returns the zero-based source index for the beat about
	// to be appended at position next (one-based), in a sequence being
	// grown to target beats.
	indexMap(next, target int) int
	// transform rewrites the source beat's raw fields. Positions and
	// end orientations are recomputed by the skeleton afterwards.
	transform(src core.Beat) (core.Beat, error)
}

func strategyFor(v Variant) (strategy, error) {
	switch v {
	case StrictRotated:
		return rotated{}, nil
	case StrictMirrored:
		return mirrored{}, nil
	case StrictSwapped:
		return swapped{}, nil
	case MirroredSwapped:
		return compose{mirrored{}, swapped{}}, nil
	case RotatedSwapped:
		return compose{rotated{}, swapped{}}, nil
	default:
		return nil, fmt.Errorf("unknown continuation variant %q", v)
	}
}

// rotated maps each second-half beat to the beat half a cycle earlier
// and rotates every location a half turn about the grid center. The
// half turn is four 45-degree steps in the hand's own rotation sense,
// which lands on the opposite point regardless of sense.
type rotated struct{}

func (rotated) indexMap(next, target int) int {
	if target < 2 {
		return 0
	}
	return next - target/2 - 1
}

func (rotated) transform(src core.Beat) (core.Beat, error) {
	out := src
	var err error
	if out.Blue, err = rotateMotion(src.Blue); err != nil {
		return out, err
	}
	if out.Red, err = rotateMotion(src.Red); err != nil {
		return out, err
	}
	return out, nil
}

func rotateMotion(m core.MotionAttributes) (core.MotionAttributes, error) {
	dir := geometry.HandRotation(m.StartLoc, m.EndLoc)
	if dir == core.NoRotation {
		dir = core.Clockwise
	}
	halfTurn := func(l core.Location) (core.Location, error) {
		var err error
		for i := 0; i < 4; i++ {
			if l, err = geometry.OctantStep(l, dir); err != nil {
				return "", err
			}
		}
		return l, nil
	}
	var err error
	if m.StartLoc, err = halfTurn(m.StartLoc); err != nil {
		return m, err
	}
	if m.EndLoc, err = halfTurn(m.EndLoc); err != nil {
		return m, err
	}
	return m, nil
}

// mirrored reflects the first half across the sequence midpoint and
// every location across the vertical axis, reversing rotation senses.
type mirrored struct{}

func (mirrored) indexMap(next, target int) int {
	half := target / 2
	if half == 0 {
		return 0
	}
	return ((target - next) % half + half) % half
}

func (mirrored) transform(src core.Beat) (core.Beat, error) {
	out := src
	var err error
	if out.Blue, err = mirrorMotion(src.Blue); err != nil {
		return out, err
	}
	if out.Red, err = mirrorMotion(src.Red); err != nil {
		return out, err
	}
	return out, nil
}

func mirrorMotion(m core.MotionAttributes) (core.MotionAttributes, error) {
	var err error
	if m.StartLoc, err = geometry.Mirror(m.StartLoc, geometry.AxisVertical); err != nil {
		return m, err
	}
	if m.EndLoc, err = geometry.Mirror(m.EndLoc, geometry.AxisVertical); err != nil {
		return m, err
	}
	m.PropRotDir = m.PropRotDir.Reverse()
	m.PrefloatPropRotDir = m.PrefloatPropRotDir.Reverse()
	return m, nil
}

// swapped repeats the first half with the two colors exchanged.
type swapped struct{}

func (swapped) indexMap(next, target int) int {
	if target < 2 {
		return 0
	}
	return next - target/2 - 1
}

func (swapped) transform(src core.Beat) (core.Beat, error) {
	return src.SwapColors(), nil
}

// compose chains two strategies: the first member's index map with both
// members' transforms applied in order.
type compose struct {
	first, second strategy
}

func (c compose) indexMap(next, target int) int {
	return c.first.indexMap(next, target)
}

func (c compose) transform(src core.Beat) (core.Beat, error) {
	mid, err := c.first.transform(src)
	if err != nil {
		return mid, err
	}
	return c.second.transform(mid)
}
