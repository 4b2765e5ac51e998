package placement

import (
	"github.com/pictoseq/engine/internal/geometry"
	"github.com/pictoseq/engine/pkg/core"
)

type locPair struct {
	start, end core.Location
}

// Zero-turn dashes travel straight through the grid center; the anchor
// sits beside the travel axis so the glyph never covers the center.
var dashDefault = map[locPair]core.Location{
	{core.North, core.South}:         core.East,
	{core.South, core.North}:         core.West,
	{core.East, core.West}:           core.South,
	{core.West, core.East}:           core.North,
	{core.Northeast, core.Southwest}: core.Southeast,
	{core.Southwest, core.Northeast}: core.Northwest,
	{core.Southeast, core.Northwest}: core.Southwest,
	{core.Northwest, core.Southeast}: core.Northeast,
}

// Turning dashes anchor a quarter turn from the start in the direction
// of prop rotation.
var dashQuarter = map[core.RotationDirection]map[core.Location]core.Location{
	core.Clockwise: {
		core.North: core.East, core.East: core.South,
		core.South: core.West, core.West: core.North,
		core.Northeast: core.Southeast, core.Southeast: core.Southwest,
		core.Southwest: core.Northwest, core.Northwest: core.Northeast,
	},
	core.CounterClockwise: {
		core.North: core.West, core.West: core.South,
		core.South: core.East, core.East: core.North,
		core.Northeast: core.Northwest, core.Northwest: core.Southwest,
		core.Southwest: core.Southeast, core.Southeast: core.Northeast,
	},
}

// crossShiftAnchors is built per grid mode: for a dash travelling along
// one axis while the partner shifts, the anchor is the side location
// farther from the shift anchor. Keyed (dash start, shift anchor).
var crossShiftAnchors map[core.GridMode]map[locPair]core.Location

func init() {
	crossShiftAnchors = map[core.GridMode]map[locPair]core.Location{
		core.GridDiamond: buildCrossShiftAnchors(core.GridDiamond),
		core.GridBox:     buildCrossShiftAnchors(core.GridBox),
	}
}

func buildCrossShiftAnchors(mode core.GridMode) map[locPair]core.Location {
	starts := []core.Location{core.North, core.East, core.South, core.West}
	if mode == core.GridBox {
		starts = []core.Location{core.Northeast, core.Southeast, core.Southwest, core.Northwest}
	}

	out := make(map[locPair]core.Location)
	for _, dashStart := range starts {
		// the two side candidates sit perpendicular to the dash travel axis
		sideA := step(step(dashStart, core.Clockwise), core.Clockwise)
		sideB := step(step(dashStart, core.CounterClockwise), core.CounterClockwise)
		for _, shift := range core.AllLocations {
			out[locPair{dashStart, shift}] = farther(sideA, sideB, shift)
		}
	}
	return out
}

// step and coord wrap the geometry lookups for table construction,
// where every input is a known compass point.
func step(l core.Location, d core.RotationDirection) core.Location {
	out, err := geometry.OctantStep(l, d)
	if err != nil {
		return l
	}
	return out
}

func coord(l core.Location) (x, y float64) {
	xy, err := geometry.Coordinate(l)
	if err != nil {
		return 0, 0
	}
	return xy.X, xy.Y
}

func farther(a, b, from core.Location) core.Location {
	ax, ay := coord(a)
	bx, by := coord(b)
	fx, fy := coord(from)
	da := (ax-fx)*(ax-fx) + (ay-fy)*(ay-fy)
	db := (bx-fx)*(bx-fx) + (by-fy)*(by-fy)
	if db > da {
		return b
	}
	return a
}

// midpoint returns the octant halfway between two locations that sit a
// quarter circle apart, which is where every shift motion travels.
func midpoint(start, end core.Location) (core.Location, bool) {
	for _, dir := range []core.RotationDirection{core.Clockwise, core.CounterClockwise} {
		mid := step(start, dir)
		if mid != start && step(mid, dir) == end {
			return mid, true
		}
	}
	return "", false
}
