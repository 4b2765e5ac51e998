// pkg/core/location.go
package core

// Location is one of the 8 compass points of the grid.
type Location string

const (
	North     Location = "n"
	Northeast Location = "ne"
	East      Location = "e"
	Southeast Location = "se"
	South     Location = "s"
	Southwest Location = "sw"
	West      Location = "w"
	Northwest Location = "nw"
)

// AllLocations lists the compass points in clockwise order starting at north.
var AllLocations = []Location{
	North, Northeast, East, Southeast, South, Southwest, West, Northwest,
}

// Diagonal reports whether the location is one of the four intercardinal points.
func (l Location) Diagonal() bool {
	switch l {
	case Northeast, Southeast, Southwest, Northwest:
		return true
	}
	return false
}

// Valid reports whether the location is a known compass point.
func (l Location) Valid() bool {
	switch l {
	case North, Northeast, East, Southeast, South, Southwest, West, Northwest:
		return true
	}
	return false
}

// RotationDirection is the sense in which a prop or hand rotates.
type RotationDirection string

const (
	Clockwise        RotationDirection = "cw"
	CounterClockwise RotationDirection = "ccw"
	NoRotation       RotationDirection = "no_rot"
)

// Reverse returns the opposite rotation sense. NoRotation reverses to itself.
func (r RotationDirection) Reverse() RotationDirection {
	switch r {
	case Clockwise:
		return CounterClockwise
	case CounterClockwise:
		return Clockwise
	}
	return r
}

// GridMode selects which four compass points the hands rest on.
// Diamond places hands on the cardinals, box on the diagonals.
type GridMode string

const (
	GridDiamond GridMode = "diamond"
	GridBox     GridMode = "box"
)

// Color identifies one of the two independently moving points.
type Color string

const (
	ColorBlue Color = "blue"
	ColorRed  Color = "red"
)
