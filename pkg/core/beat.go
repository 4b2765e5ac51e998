// pkg/core/beat.go
package core

import "strings"

// PositionKey is the canonical composite name of a two-hand position,
// e.g. "alpha3" or "beta5". The alpha family holds opposite hands, beta
// same-location hands, gamma right-angle hands.
type PositionKey string

// Family strips the numeric suffix: "gamma11" -> "gamma".
func (p PositionKey) Family() string {
	return strings.TrimRight(string(p), "0123456789")
}

// SameFamily reports whether two positions share a family, ignoring the
// numeric suffix.
func (p PositionKey) SameFamily(other PositionKey) bool {
	return p.Family() == other.Family()
}

// Beat is one synchronized pose/transition of both props, the atomic
// sequence unit.
type Beat struct {
	BeatNumber int              `json:"beat"`
	Letter     Letter           `json:"letter,omitempty"`
	LetterType LetterType       `json:"letter_type,omitempty"`
	StartPos   PositionKey      `json:"start_pos"`
	EndPos     PositionKey      `json:"end_pos"`
	Timing     string           `json:"timing,omitempty"`
	Direction  string           `json:"direction,omitempty"`
	Blue       MotionAttributes `json:"blue_attributes"`
	Red        MotionAttributes `json:"red_attributes"`
}

// Motion returns the attributes for one color.
func (b Beat) Motion(c Color) MotionAttributes {
	if c == ColorRed {
		return b.Red
	}
	return b.Blue
}

// SetMotion stores attributes for one color.
func (b *Beat) SetMotion(c Color, m MotionAttributes) {
	if c == ColorRed {
		b.Red = m
		return
	}
	b.Blue = m
}

// SwapColors returns a copy with the blue and red attribute sets exchanged.
func (b Beat) SwapColors() Beat {
	b.Blue, b.Red = b.Red, b.Blue
	return b
}

// Sequence is an ordered run of beats, optionally preceded by a
// start-position pseudo-beat that fixes the opening pose and takes no
// part in index arithmetic.
type Sequence struct {
	StartPosition *Beat  `json:"start_position,omitempty"`
	Beats         []Beat `json:"beats"`
}

// InitialPosition is the position the sequence starts from: the pseudo
// beat's end position when present, otherwise the first beat's start.
func (s Sequence) InitialPosition() PositionKey {
	if s.StartPosition != nil {
		return s.StartPosition.EndPos
	}
	if len(s.Beats) > 0 {
		return s.Beats[0].StartPos
	}
	return ""
}

// FinalPosition is the last beat's end position, or "" for an empty
// sequence.
func (s Sequence) FinalPosition() PositionKey {
	if len(s.Beats) == 0 {
		return ""
	}
	return s.Beats[len(s.Beats)-1].EndPos
}
