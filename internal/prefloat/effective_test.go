package prefloat

import (
	"testing"

	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/pkg/core"
)

func floatMotion() core.MotionAttributes {
	return core.MotionAttributes{
		MotionType: core.MotionFloat,
		StartLoc:   core.South,
		EndLoc:     core.West,
		StartOri:   core.OrientIn,
		Turns:      core.TurnsFloat,
		PropRotDir: core.NoRotation,
	}
}

func storeKey() overrides.Key {
	return overrides.Key{
		GridMode:   core.GridDiamond,
		OriKey:     "from_radial",
		Letter:     "Ψ-",
		TurnsTuple: "(o, fl, 1)",
	}
}

func TestEffective_NonFloatPassesThrough(t *testing.T) {
	in := core.MotionAttributes{MotionType: core.MotionAnti, Turns: 1, PropRotDir: core.CounterClockwise}
	out := Effective(in, nil, overrides.Key{}, core.ColorBlue)
	if out != in {
		t.Errorf("non-float motion must be unchanged, got %+v", out)
	}
}

func TestEffective_AttrsWin(t *testing.T) {
	s := overrides.NewStore("")
	k := storeKey()
	if err := s.Set(k, overrides.ColorKey(overrides.KeyPrefloatMotionType, core.ColorBlue), "anti"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := floatMotion()
	m.PrefloatMotionType = core.MotionPro
	m.PrefloatPropRotDir = core.CounterClockwise

	out := Effective(m, s, k, core.ColorBlue)
	if out.MotionType != core.MotionPro {
		t.Errorf("recorded prefloat fields must win over store, got %q", out.MotionType)
	}
	if out.PropRotDir != core.CounterClockwise {
		t.Errorf("expected ccw, got %q", out.PropRotDir)
	}
}

func TestEffective_StoreFillsGaps(t *testing.T) {
	s := overrides.NewStore("")
	k := storeKey()
	if err := s.Set(k, overrides.ColorKey(overrides.KeyPrefloatMotionType, core.ColorRed), "anti"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set(k, overrides.ColorKey(overrides.KeyPrefloatPropRotDir, core.ColorRed), "ccw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := Effective(floatMotion(), s, k, core.ColorRed)
	if out.MotionType != core.MotionAnti {
		t.Errorf("expected anti from store, got %q", out.MotionType)
	}
	if out.PropRotDir != core.CounterClockwise {
		t.Errorf("expected ccw from store, got %q", out.PropRotDir)
	}
	if out.Turns != 0 {
		t.Errorf("resolved float must carry zero turns, got %v", out.Turns)
	}
}

func TestEffective_ColorKeysAreIndependent(t *testing.T) {
	s := overrides.NewStore("")
	k := storeKey()
	if err := s.Set(k, overrides.ColorKey(overrides.KeyPrefloatMotionType, core.ColorBlue), "anti"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := Effective(floatMotion(), s, k, core.ColorRed)
	if out.MotionType != core.MotionPro {
		t.Errorf("red hand must not read blue override, got %q", out.MotionType)
	}
}

func TestEffective_Defaults(t *testing.T) {
	out := Effective(floatMotion(), nil, overrides.Key{}, core.ColorBlue)
	if out.MotionType != core.MotionPro {
		t.Errorf("expected pro default, got %q", out.MotionType)
	}
	if out.PropRotDir != core.Clockwise {
		t.Errorf("expected cw default, got %q", out.PropRotDir)
	}

	m := floatMotion()
	m.PropRotDir = core.CounterClockwise
	out = Effective(m, nil, overrides.Key{}, core.ColorBlue)
	if out.PropRotDir != core.CounterClockwise {
		t.Errorf("expected existing hand sense kept, got %q", out.PropRotDir)
	}
}
