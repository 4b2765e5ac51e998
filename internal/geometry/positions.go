// internal/geometry/positions.go
package geometry

import (
	"fmt"

	"github.com/pictoseq/engine/pkg/core"
)

// locPair keys the position map by (blue, red) hand locations.
type locPair struct {
	blue core.Location
	red  core.Location
}

// Position numbering walks the ring clockwise starting at the pair whose
// blue hand is south (alpha/beta) or west (gamma), matching the existing
// dataset's naming.
var positionMap = map[locPair]core.PositionKey{}

func init() {
	alphaOrder := []locPair{
		{core.South, core.North}, {core.Southwest, core.Northeast},
		{core.West, core.East}, {core.Northwest, core.Southeast},
		{core.North, core.South}, {core.Northeast, core.Southwest},
		{core.East, core.West}, {core.Southeast, core.Northwest},
	}
	betaOrder := []locPair{
		{core.South, core.South}, {core.Southwest, core.Southwest},
		{core.West, core.West}, {core.Northwest, core.Northwest},
		{core.North, core.North}, {core.Northeast, core.Northeast},
		{core.East, core.East}, {core.Southeast, core.Southeast},
	}
	gammaOrder := []locPair{
		{core.West, core.North}, {core.Northwest, core.Northeast},
		{core.North, core.East}, {core.Northeast, core.Southeast},
		{core.East, core.South}, {core.Southeast, core.Southwest},
		{core.South, core.West}, {core.Southwest, core.Northwest},
		{core.North, core.West}, {core.Northeast, core.Northwest},
		{core.East, core.North}, {core.Southeast, core.Northeast},
		{core.South, core.East}, {core.Southwest, core.Southeast},
		{core.West, core.South}, {core.Northwest, core.Southwest},
	}

	for i, p := range alphaOrder {
		positionMap[p] = core.PositionKey(fmt.Sprintf("alpha%d", i+1))
	}
	for i, p := range betaOrder {
		positionMap[p] = core.PositionKey(fmt.Sprintf("beta%d", i+1))
	}
	for i, p := range gammaOrder {
		positionMap[p] = core.PositionKey(fmt.Sprintf("gamma%d", i+1))
	}
}

// Combine maps a (blue, red) location pair to its canonical position key.
// Pairs that place the hands 45 degrees apart have no position name and
// fail with ErrInvalidLocation.
func Combine(blue, red core.Location) (core.PositionKey, error) {
	key, ok := positionMap[locPair{blue, red}]
	if !ok {
		return "", fmt.Errorf("%w: no position for blue=%q red=%q", ErrInvalidLocation, blue, red)
	}
	return key, nil
}

// SplitPosition inverts Combine.
func SplitPosition(pos core.PositionKey) (blue, red core.Location, err error) {
	for pair, key := range positionMap {
		if key == pos {
			return pair.blue, pair.red, nil
		}
	}
	return "", "", fmt.Errorf("%w: unknown position %q", ErrInvalidLocation, pos)
}
