package orientation

import (
	"errors"
	"testing"

	"github.com/pictoseq/engine/pkg/core"
)

func motion(mt core.MotionType, start core.Orientation, turns core.Turns, dir core.RotationDirection) core.MotionAttributes {
	return core.MotionAttributes{
		MotionType: mt,
		StartLoc:   core.North,
		EndLoc:     core.East,
		StartOri:   start,
		Turns:      turns,
		PropRotDir: dir,
	}
}

func TestEndOrientation_WholeTurns(t *testing.T) {
	cases := []struct {
		name string
		m    core.MotionAttributes
		want core.Orientation
	}{
		{"pro zero preserves", motion(core.MotionPro, core.OrientIn, 0, core.Clockwise), core.OrientIn},
		{"pro one flips", motion(core.MotionPro, core.OrientIn, 1, core.Clockwise), core.OrientOut},
		{"pro two preserves", motion(core.MotionPro, core.OrientClock, 2, core.Clockwise), core.OrientClock},
		{"pro three flips", motion(core.MotionPro, core.OrientCounter, 3, core.Clockwise), core.OrientClock},
		{"anti zero flips", motion(core.MotionAnti, core.OrientIn, 0, core.Clockwise), core.OrientOut},
		{"anti one preserves", motion(core.MotionAnti, core.OrientOut, 1, core.Clockwise), core.OrientOut},
		{"anti two flips", motion(core.MotionAnti, core.OrientClock, 2, core.CounterClockwise), core.OrientCounter},
		{"dash zero flips", motion(core.MotionDash, core.OrientIn, 0, core.NoRotation), core.OrientOut},
		{"dash one preserves", motion(core.MotionDash, core.OrientCounter, 1, core.Clockwise), core.OrientCounter},
		{"static zero preserves", motion(core.MotionStatic, core.OrientIn, 0, core.NoRotation), core.OrientIn},
		{"static one preserves", motion(core.MotionStatic, core.OrientClock, 1, core.Clockwise), core.OrientClock},
	}
	for _, c := range cases {
		got, err := EndOrientation(c.m)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestEndOrientation_HalfTurnsCrossCategory(t *testing.T) {
	cases := []struct {
		name string
		m    core.MotionAttributes
		want core.Orientation
	}{
		{"pro cw in", motion(core.MotionPro, core.OrientIn, 0.5, core.Clockwise), core.OrientClock},
		{"pro cw out", motion(core.MotionPro, core.OrientOut, 0.5, core.Clockwise), core.OrientCounter},
		{"pro cw clock", motion(core.MotionPro, core.OrientClock, 0.5, core.Clockwise), core.OrientOut},
		{"pro cw counter", motion(core.MotionPro, core.OrientCounter, 0.5, core.Clockwise), core.OrientIn},
		{"pro ccw in", motion(core.MotionPro, core.OrientIn, 0.5, core.CounterClockwise), core.OrientCounter},
		{"pro ccw clock", motion(core.MotionPro, core.OrientClock, 0.5, core.CounterClockwise), core.OrientIn},
		{"anti cw in inverts sense", motion(core.MotionAnti, core.OrientIn, 0.5, core.Clockwise), core.OrientCounter},
		{"anti ccw in inverts sense", motion(core.MotionAnti, core.OrientIn, 0.5, core.CounterClockwise), core.OrientClock},
		{"static cw in", motion(core.MotionStatic, core.OrientIn, 0.5, core.Clockwise), core.OrientClock},
		{"pro cw 1.5 flips again", motion(core.MotionPro, core.OrientIn, 1.5, core.Clockwise), core.OrientCounter},
		{"pro cw 2.5 same as 0.5", motion(core.MotionPro, core.OrientIn, 2.5, core.Clockwise), core.OrientClock},
	}
	for _, c := range cases {
		got, err := EndOrientation(c.m)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
		if got.Category() == c.m.StartOri.Category() {
			t.Errorf("%s: half turn must cross orientation category", c.name)
		}
	}
}

func TestEndOrientation_Errors(t *testing.T) {
	if _, err := EndOrientation(motion(core.MotionFloat, core.OrientIn, 0, core.Clockwise)); err == nil {
		t.Error("expected error for unresolved float motion")
	}
	if _, err := EndOrientation(motion(core.MotionPro, core.OrientIn, 0.5, core.NoRotation)); err == nil {
		t.Error("expected error for half turn without rotation direction")
	}
	if _, err := EndOrientation(motion(core.MotionPro, core.OrientIn, 4, core.Clockwise)); !errors.Is(err, core.ErrInvalidTurns) {
		t.Errorf("expected ErrInvalidTurns for out-of-range turns, got %v", err)
	}
	if _, err := EndOrientation(motion(core.MotionPro, core.OrientIn, core.TurnsFloat, core.Clockwise)); !errors.Is(err, core.ErrInvalidTurns) {
		t.Errorf("expected ErrInvalidTurns for fl turns on concrete motion, got %v", err)
	}
	if _, err := EndOrientation(motion("spin", core.OrientIn, 0, core.Clockwise)); err == nil {
		t.Error("expected error for unknown motion type")
	}
}
