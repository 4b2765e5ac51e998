// Package placement computes the render anchor for each motion's
// glyph. The anchor is distinct from the raw start/end location: dashes
// anchor beside their travel axis, shifts anchor at the arc midpoint,
// and anchors are nudged apart when both hands would land on the same
// point. Interactive overrides recorded in the store win over every
// table.
package placement

import (
	"fmt"

	"github.com/pictoseq/engine/internal/geometry"
	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/pkg/core"
)

// Context carries the per-beat facts the tables dispatch on.
type Context struct {
	Letter   core.Letter
	GridMode core.GridMode

	// ShiftLoc is the partner shift's anchor, set only for cross shift
	// letters where one hand dashes around the other hand's arc.
	ShiftLoc core.Location
}

// Resolve returns the render anchor for one motion. The partner motion
// is consulted for overlap avoidance; the store may be nil when no
// interactive session exists.
func Resolve(this, partner core.MotionAttributes, ctx Context, store *overrides.Store, key overrides.Key, color core.Color) (core.Location, error) {
	if store != nil {
		if v, ok := store.Get(key, overrides.ColorKey(overrides.KeyArrowLoc, color)); ok {
			loc := core.Location(v)
			if loc.Valid() {
				return loc, nil
			}
		}
	}

	switch this.MotionType {
	case core.MotionStatic:
		return this.StartLoc, nil
	case core.MotionDash:
		return dashAnchor(this, ctx, color), nil
	case core.MotionPro, core.MotionAnti, core.MotionFloat:
		return shiftAnchor(this, partner, color), nil
	default:
		return "", fmt.Errorf("no anchor rule for motion type %q", this.MotionType)
	}
}

func dashAnchor(m core.MotionAttributes, ctx Context, color core.Color) core.Location {
	if ctx.Letter.TypeOf() == core.TypeCrossShift && ctx.ShiftLoc != "" {
		if loc, ok := crossShiftAnchors[ctx.GridMode][locPair{m.StartLoc, ctx.ShiftLoc}]; ok {
			return loc
		}
		return m.StartLoc
	}

	if m.Turns != 0 {
		if loc, ok := dashQuarter[m.PropRotDir][m.StartLoc]; ok {
			return loc
		}
		return m.StartLoc
	}

	loc, ok := dashDefault[locPair{m.StartLoc, m.EndLoc}]
	if !ok {
		return m.StartLoc
	}
	if ctx.Letter.DualDashPaired() && color == core.ColorBlue {
		// the paired dual dash letters stack both hands on one axis;
		// blue takes the far side so the glyphs stay apart
		if opp, err := geometry.Opposite(loc); err == nil {
			return opp
		}
	}
	return loc
}

func shiftAnchor(m, partner core.MotionAttributes, color core.Color) core.Location {
	anchor, ok := midpoint(m.StartLoc, m.EndLoc)
	if !ok {
		return m.StartLoc
	}

	partnerAnchor, ok := midpoint(partner.StartLoc, partner.EndLoc)
	if ok && partnerAnchor == anchor {
		anchor = step(anchor, nudgeDirection(anchor, color))
	}
	return anchor
}

// nudgeDirection spreads colliding anchors deterministically: the step
// sense depends on which half of the grid the anchor sits in, and the
// two colors step opposite ways so they never collide again.
func nudgeDirection(anchor core.Location, color core.Color) core.RotationDirection {
	dir := core.CounterClockwise
	x, y := coord(anchor)
	if x+y > 0 {
		dir = core.Clockwise
	}
	if color == core.ColorRed {
		dir = dir.Reverse()
	}
	return dir
}
