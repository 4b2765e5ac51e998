// pkg/core/motion.go
package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Orientation of a prop relative to the grid center.
type Orientation string

const (
	OrientIn      Orientation = "in"
	OrientOut     Orientation = "out"
	OrientClock   Orientation = "clock"
	OrientCounter Orientation = "counter"
)

// OrientationCategory partitions orientations into radial (in/out) and
// nonradial (clock/counter).
type OrientationCategory string

const (
	CategoryRadial    OrientationCategory = "radial"
	CategoryNonradial OrientationCategory = "nonradial"
)

// Category returns which partition the orientation belongs to.
func (o Orientation) Category() OrientationCategory {
	if o == OrientIn || o == OrientOut {
		return CategoryRadial
	}
	return CategoryNonradial
}

// Opposite returns the other member of the same category.
func (o Orientation) Opposite() Orientation {
	switch o {
	case OrientIn:
		return OrientOut
	case OrientOut:
		return OrientIn
	case OrientClock:
		return OrientCounter
	case OrientCounter:
		return OrientClock
	}
	return o
}

// MotionType classifies how a single prop moves during one beat.
type MotionType string

const (
	MotionPro    MotionType = "pro"
	MotionAnti   MotionType = "anti"
	MotionStatic MotionType = "static"
	MotionDash   MotionType = "dash"
	MotionFloat  MotionType = "float"
)

// Turns counts half-rotations of the prop during one beat.
// Valid values are non-negative multiples of 0.5 up to 3, or TurnsFloat
// for a float motion that carries no turn count of its own.
type Turns float64

// TurnsFloat is the sentinel turn value of an unresolved float motion,
// serialized as "fl".
const TurnsFloat Turns = -1

// MaxTurns is the largest turn count the editor produces.
const MaxTurns Turns = 3

// IsFloat reports whether the value is the float sentinel.
func (t Turns) IsFloat() bool { return t == TurnsFloat }

// Validate rejects turn counts the engine cannot compute geometry for.
func (t Turns) Validate() error {
	if t.IsFloat() {
		return nil
	}
	if t < 0 {
		return fmt.Errorf("%w: turns %v is negative", ErrInvalidTurns, float64(t))
	}
	if t > MaxTurns {
		return fmt.Errorf("%w: turns %v exceeds %v", ErrInvalidTurns, float64(t), float64(MaxTurns))
	}
	if math.Mod(float64(t)*2, 1) != 0 {
		return fmt.Errorf("%w: turns %v is not a multiple of 0.5", ErrInvalidTurns, float64(t))
	}
	return nil
}

// HalfTurn reports whether the turn count has a .5 fractional part.
func (t Turns) HalfTurn() bool {
	return !t.IsFloat() && math.Mod(float64(t)*2, 2) == 1
}

// WholePart returns the integer part of the turn count. Float motions
// contribute zero whole turns.
func (t Turns) WholePart() int {
	if t.IsFloat() {
		return 0
	}
	return int(t)
}

// String formats the turn count the way the dataset and override store
// encode it: integers without a decimal point, "fl" for the sentinel.
func (t Turns) String() string {
	if t.IsFloat() {
		return "fl"
	}
	return strconv.FormatFloat(float64(t), 'f', -1, 64)
}

// ParseTurns parses a dataset/store turn encoding.
func ParseTurns(s string) (Turns, error) {
	if s == "fl" {
		return TurnsFloat, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTurns, s)
	}
	t := Turns(f)
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return t, nil
}

// MarshalJSON encodes the float sentinel as the string "fl" to stay
// compatible with existing datasets and override stores.
func (t Turns) MarshalJSON() ([]byte, error) {
	if t.IsFloat() {
		return []byte(`"fl"`), nil
	}
	return json.Marshal(float64(t))
}

// UnmarshalJSON accepts either a number or the string "fl".
func (t *Turns) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := ParseTurns(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTurns, string(b))
	}
	*t = Turns(f)
	return nil
}

// MotionAttributes are the raw motion parameters of one prop for one beat.
// PrefloatMotionType and PrefloatPropRotDir disambiguate a float motion;
// they are empty on every other motion type.
type MotionAttributes struct {
	MotionType         MotionType        `json:"motion_type"`
	StartLoc           Location          `json:"start_loc"`
	EndLoc             Location          `json:"end_loc"`
	StartOri           Orientation       `json:"start_ori"`
	EndOri             Orientation       `json:"end_ori"`
	Turns              Turns             `json:"turns"`
	PropRotDir         RotationDirection `json:"prop_rot_dir"`
	PrefloatMotionType MotionType        `json:"prefloat_motion_type,omitempty"`
	PrefloatPropRotDir RotationDirection `json:"prefloat_prop_rot_dir,omitempty"`
}

// HasPrefloat reports whether the motion carries prefloat metadata.
func (m MotionAttributes) HasPrefloat() bool {
	return m.PrefloatMotionType != "" || m.PrefloatPropRotDir != ""
}

// ClearPrefloat returns a copy without prefloat metadata.
func (m MotionAttributes) ClearPrefloat() MotionAttributes {
	m.PrefloatMotionType = ""
	m.PrefloatPropRotDir = ""
	return m
}
