// Package orientation derives the resulting prop orientation from a
// concrete motion. Float motions must be resolved via prefloat before
// calling in.
package orientation

import (
	"fmt"

	"github.com/pictoseq/engine/pkg/core"
)

// Whole-turn parity: pro preserves the concrete orientation on even
// turns and flips within its category on odd turns; anti and dash apply
// the inverted rule; static always preserves. The table was derived from
// the reference dataset rather than any single call site.
var flipOnEven = map[core.MotionType]bool{
	core.MotionPro:    false,
	core.MotionAnti:   true,
	core.MotionDash:   true,
	core.MotionStatic: false,
}

// Half-turn crossings for pro/static. Anti and dash invert the rotation
// sense. Every entry crosses the category boundary, and cw/ccw always
// land on the two distinct members of the new category.
var halfTurnCross = map[core.RotationDirection]map[core.Orientation]core.Orientation{
	core.Clockwise: {
		core.OrientIn:      core.OrientClock,
		core.OrientOut:     core.OrientCounter,
		core.OrientClock:   core.OrientOut,
		core.OrientCounter: core.OrientIn,
	},
	core.CounterClockwise: {
		core.OrientIn:      core.OrientCounter,
		core.OrientOut:     core.OrientClock,
		core.OrientClock:   core.OrientIn,
		core.OrientCounter: core.OrientOut,
	},
}

// EndOrientation computes the orientation a motion ends in.
func EndOrientation(m core.MotionAttributes) (core.Orientation, error) {
	if m.MotionType == core.MotionFloat {
		return "", fmt.Errorf("end orientation of unresolved float motion (start %q)", m.StartLoc)
	}
	if _, ok := flipOnEven[m.MotionType]; !ok {
		return "", fmt.Errorf("unknown motion type %q", m.MotionType)
	}
	if err := m.Turns.Validate(); err != nil {
		return "", err
	}
	if m.Turns.IsFloat() {
		return "", fmt.Errorf("%w: float turns on %q motion", core.ErrInvalidTurns, m.MotionType)
	}

	if m.Turns.HalfTurn() {
		return halfTurnOrientation(m)
	}
	return wholeTurnOrientation(m), nil
}

func wholeTurnOrientation(m core.MotionAttributes) core.Orientation {
	odd := m.Turns.WholePart()%2 == 1
	flip := odd != flipOnEven[m.MotionType] // XOR: invert parity for anti/dash
	if m.MotionType == core.MotionStatic {
		flip = false
	}
	if flip {
		return m.StartOri.Opposite()
	}
	return m.StartOri
}

func halfTurnOrientation(m core.MotionAttributes) (core.Orientation, error) {
	dir := m.PropRotDir
	if m.MotionType == core.MotionAnti || m.MotionType == core.MotionDash {
		dir = dir.Reverse()
	}
	cross, ok := halfTurnCross[dir]
	if !ok {
		return "", fmt.Errorf("half-turn %q motion needs cw or ccw prop rotation, got %q",
			m.MotionType, m.PropRotDir)
	}
	out := cross[m.StartOri]
	// each whole turn on top of the crossing flips within the new category
	if m.Turns.WholePart()%2 == 1 {
		out = out.Opposite()
	}
	return out, nil
}
