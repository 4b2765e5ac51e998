// Package geometry holds the static grid lookup tables: per-mode
// rotation, mirror reflection, octant stepping, hand rotation sense and
// the location-pair to position-key mapping. Everything here is pure.
package geometry

import (
	"errors"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/pictoseq/engine/pkg/core"
)

// ErrInvalidLocation marks a geometry lookup with a location absent from
// the active grid mode's table. It indicates malformed motion attributes.
var ErrInvalidLocation = errors.New("invalid location")

// Axis selects a mirror axis through the grid center.
type Axis string

const (
	AxisVertical   Axis = "vertical"
	AxisHorizontal Axis = "horizontal"
)

// Hand position rings per grid mode, clockwise. Diamond hands sit on the
// cardinals, box hands on the diagonals.
var (
	diamondRing = []core.Location{core.North, core.East, core.South, core.West}
	boxRing     = []core.Location{core.Northeast, core.Southeast, core.Southwest, core.Northwest}

	// full octant ring, used for render-anchor adjustments which are not
	// constrained to the hand positions of the active mode
	octantRing = []core.Location{
		core.North, core.Northeast, core.East, core.Southeast,
		core.South, core.Southwest, core.West, core.Northwest,
	}
)

var (
	diamondIndex = ringIndex(diamondRing)
	boxIndex     = ringIndex(boxRing)
	octantIndex  = ringIndex(octantRing)
)

func ringIndex(ring []core.Location) map[core.Location]int {
	m := make(map[core.Location]int, len(ring))
	for i, l := range ring {
		m[l] = i
	}
	return m
}

func modeRing(mode core.GridMode) ([]core.Location, map[core.Location]int) {
	if mode == core.GridBox {
		return boxRing, boxIndex
	}
	return diamondRing, diamondIndex
}

// Rotate steps a hand location to the adjacent valid position of the
// grid mode. Locations outside the mode's ring fail with
// ErrInvalidLocation.
func Rotate(loc core.Location, dir core.RotationDirection, mode core.GridMode) (core.Location, error) {
	ring, idx := modeRing(mode)
	i, ok := idx[loc]
	if !ok {
		return "", fmt.Errorf("%w: %q not in %s grid", ErrInvalidLocation, loc, mode)
	}
	switch dir {
	case core.Clockwise:
		return ring[(i+1)%len(ring)], nil
	case core.CounterClockwise:
		return ring[(i+len(ring)-1)%len(ring)], nil
	case core.NoRotation:
		return loc, nil
	}
	return "", fmt.Errorf("%w: unknown rotation direction %q", ErrInvalidLocation, dir)
}

// OctantStep moves a render anchor one 45-degree step around the full
// eight-point ring, independent of grid mode.
func OctantStep(loc core.Location, dir core.RotationDirection) (core.Location, error) {
	i, ok := octantIndex[loc]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocation, loc)
	}
	switch dir {
	case core.Clockwise:
		return octantRing[(i+1)%8], nil
	case core.CounterClockwise:
		return octantRing[(i+7)%8], nil
	}
	return loc, nil
}

// Opposite returns the location 180 degrees across the grid.
func Opposite(loc core.Location) (core.Location, error) {
	i, ok := octantIndex[loc]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocation, loc)
	}
	return octantRing[(i+4)%8], nil
}

var (
	mirrorVertical = map[core.Location]core.Location{
		core.North: core.North, core.South: core.South,
		core.East: core.West, core.West: core.East,
		core.Northeast: core.Northwest, core.Northwest: core.Northeast,
		core.Southeast: core.Southwest, core.Southwest: core.Southeast,
	}
	mirrorHorizontal = map[core.Location]core.Location{
		core.East: core.East, core.West: core.West,
		core.North: core.South, core.South: core.North,
		core.Northeast: core.Southeast, core.Southeast: core.Northeast,
		core.Northwest: core.Southwest, core.Southwest: core.Northwest,
	}
)

// Mirror reflects a location across the given axis.
func Mirror(loc core.Location, axis Axis) (core.Location, error) {
	table := mirrorVertical
	if axis == AxisHorizontal {
		table = mirrorHorizontal
	}
	out, ok := table[loc]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocation, loc)
	}
	return out, nil
}

// HandRotation derives the rotation sense of a hand from its start and
// end locations. Same or opposite locations have no rotation sense.
func HandRotation(start, end core.Location) core.RotationDirection {
	si, ok1 := octantIndex[start]
	ei, ok2 := octantIndex[end]
	if !ok1 || !ok2 {
		return core.NoRotation
	}
	switch (ei - si + 8) % 8 {
	case 1, 2, 3:
		return core.Clockwise
	case 5, 6, 7:
		return core.CounterClockwise
	}
	return core.NoRotation
}

// Coordinate places a location on the unit grid, north up. The placement
// adjustment uses these to pick which way an overlapping anchor slides.
func Coordinate(loc core.Location) (geom.XY, error) {
	xy, ok := coordinates[loc]
	if !ok {
		return geom.XY{}, fmt.Errorf("%w: %q", ErrInvalidLocation, loc)
	}
	return xy, nil
}

var coordinates = map[core.Location]geom.XY{
	core.North:     {X: 0, Y: 1},
	core.Northeast: {X: 1, Y: 1},
	core.East:      {X: 1, Y: 0},
	core.Southeast: {X: 1, Y: -1},
	core.South:     {X: 0, Y: -1},
	core.Southwest: {X: -1, Y: -1},
	core.West:      {X: -1, Y: 0},
	core.Northwest: {X: -1, Y: 1},
}
