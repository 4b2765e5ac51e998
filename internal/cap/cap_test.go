package cap

import (
	"strings"
	"testing"

	"github.com/pictoseq/engine/pkg/core"
)

// twoBeatPartial builds an asymmetric half sequence: the two hands turn
// different amounts, so each continuation variant produces a distinct
// second half.
func twoBeatPartial() core.Sequence {
	return core.Sequence{Beats: []core.Beat{
		{
			BeatNumber: 1, Letter: "A", StartPos: "alpha3", EndPos: "alpha5",
			Blue: core.MotionAttributes{
				MotionType: core.MotionPro, StartLoc: core.West, EndLoc: core.North,
				StartOri: core.OrientIn, EndOri: core.OrientOut, Turns: 1, PropRotDir: core.Clockwise,
			},
			Red: core.MotionAttributes{
				MotionType: core.MotionPro, StartLoc: core.East, EndLoc: core.South,
				StartOri: core.OrientIn, EndOri: core.OrientIn, Turns: 0, PropRotDir: core.Clockwise,
			},
		},
		{
			BeatNumber: 2, Letter: "A", StartPos: "alpha5", EndPos: "alpha7",
			Blue: core.MotionAttributes{
				MotionType: core.MotionPro, StartLoc: core.North, EndLoc: core.East,
				StartOri: core.OrientOut, EndOri: core.OrientIn, Turns: 1, PropRotDir: core.Clockwise,
			},
			Red: core.MotionAttributes{
				MotionType: core.MotionPro, StartLoc: core.South, EndLoc: core.West,
				StartOri: core.OrientIn, EndOri: core.OrientIn, Turns: 0, PropRotDir: core.Clockwise,
			},
		},
	}}
}

// fourBeatPartial walks both hands a full quarter circle per beat,
// returning to alpha3 after four beats.
func fourBeatPartial() core.Sequence {
	blueLocs := []core.Location{core.West, core.North, core.East, core.South, core.West}
	redLocs := []core.Location{core.East, core.South, core.West, core.North, core.East}
	positions := []core.PositionKey{"alpha3", "alpha5", "alpha7", "alpha1", "alpha3"}

	var beats []core.Beat
	ori := core.OrientIn
	for i := 0; i < 4; i++ {
		beats = append(beats, core.Beat{
			BeatNumber: i + 1, Letter: "A",
			StartPos: positions[i], EndPos: positions[i+1],
			Blue: core.MotionAttributes{
				MotionType: core.MotionPro, StartLoc: blueLocs[i], EndLoc: blueLocs[i+1],
				StartOri: ori, EndOri: ori.Opposite(), Turns: 1, PropRotDir: core.Clockwise,
			},
			Red: core.MotionAttributes{
				MotionType: core.MotionPro, StartLoc: redLocs[i], EndLoc: redLocs[i+1],
				StartOri: ori, EndOri: ori.Opposite(), Turns: 1, PropRotDir: core.Clockwise,
			},
		})
		ori = ori.Opposite()
	}
	return core.Sequence{Beats: beats}
}

func TestGenerate_RoundTripAllVariants(t *testing.T) {
	for _, v := range Variants {
		seq, err := Generate(twoBeatPartial(), 4, v, core.GridDiamond, nil)
		if err != nil {
			t.Fatalf("%s: generate failed: %v", v, err)
		}
		if len(seq.Beats) != 4 {
			t.Fatalf("%s: expected 4 beats, got %d", v, len(seq.Beats))
		}
		for i, b := range seq.Beats {
			if b.BeatNumber != i+1 {
				t.Errorf("%s: beat %d numbered %d", v, i+1, b.BeatNumber)
			}
		}

		got := ClassifyCAP(seq, core.GridDiamond, nil).Variant()
		if got != v {
			t.Errorf("generated %s, verifier classified %q", v, got)
		}
	}
}

func TestGenerate_RotatedHalfTurnProperty(t *testing.T) {
	// a half that travels from alpha3 to its half-turn image alpha7, so
	// the rotated continuation carries the hands back to alpha3
	partial := core.Sequence{Beats: fourBeatPartial().Beats[:2]}
	seq, err := Generate(partial, 4, StrictRotated, core.GridDiamond, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// beat 3 sources beat 1; alpha5 (blue n, red s) rotated a half turn
	// about the center is alpha1 (blue s, red n)
	if seq.Beats[2].EndPos != "alpha1" {
		t.Errorf("beat 3 end_pos = %q, want alpha1", seq.Beats[2].EndPos)
	}
	if seq.Beats[2].StartPos != seq.Beats[1].EndPos {
		t.Errorf("beat 3 start_pos %q does not chain from beat 2 end_pos %q",
			seq.Beats[2].StartPos, seq.Beats[1].EndPos)
	}

	r := ClassifyCAP(seq, core.GridDiamond, nil)
	if !r.IsStrictRotated {
		t.Error("rotated continuation not recognized")
	}
	if !r.EndsAtStartPos {
		t.Errorf("sequence ends at %q from %q, expected return to start",
			seq.FinalPosition(), seq.InitialPosition())
	}
	if !r.CanBeCAP {
		t.Error("expected can_be_cap for a sequence returning to its start family")
	}
}

func TestGenerate_OrientationContinuity(t *testing.T) {
	seq, err := Generate(fourBeatPartial(), 8, StrictRotated, core.GridDiamond, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for i := 4; i < 8; i++ {
		prev := seq.Beats[i-1]
		cur := seq.Beats[i]
		for _, c := range []core.Color{core.ColorBlue, core.ColorRed} {
			if cur.Motion(c).StartOri != prev.Motion(c).EndOri {
				t.Errorf("beat %d %s starts %q but beat %d ended %q",
					i+1, c, cur.Motion(c).StartOri, i, prev.Motion(c).EndOri)
			}
			// pro with one turn flips within the category
			if cur.Motion(c).EndOri != cur.Motion(c).StartOri.Opposite() {
				t.Errorf("beat %d %s end_ori = %q, want %q",
					i+1, c, cur.Motion(c).EndOri, cur.Motion(c).StartOri.Opposite())
			}
		}
	}
}

func TestGenerate_ReattachesStartPosition(t *testing.T) {
	partial := twoBeatPartial()
	partial.StartPosition = &core.Beat{
		BeatNumber: 99, EndPos: "alpha3",
		Blue: core.MotionAttributes{MotionType: core.MotionStatic, StartLoc: core.West, EndLoc: core.West},
		Red:  core.MotionAttributes{MotionType: core.MotionStatic, StartLoc: core.East, EndLoc: core.East},
	}

	seq, err := Generate(partial, 4, StrictRotated, core.GridDiamond, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if seq.StartPosition == nil {
		t.Fatal("start position pseudo beat lost")
	}
	if seq.StartPosition.BeatNumber != 0 {
		t.Errorf("pseudo beat number = %d, want 0", seq.StartPosition.BeatNumber)
	}
	if partial.StartPosition.BeatNumber != 99 {
		t.Error("input sequence mutated")
	}
}

func TestGenerate_DropsStalePrefloatMetadata(t *testing.T) {
	partial := twoBeatPartial()
	partial.Beats[0].Blue.PrefloatMotionType = core.MotionAnti

	seq, err := Generate(partial, 4, StrictRotated, core.GridDiamond, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	// beat 3 is generated from beat 1; its blue motion is pro, so the
	// stale prefloat tag must not survive
	if seq.Beats[2].Blue.HasPrefloat() {
		t.Errorf("stale prefloat metadata carried onto beat 3: %+v", seq.Beats[2].Blue)
	}
}

func TestGenerate_Preconditions(t *testing.T) {
	if _, err := Generate(core.Sequence{}, 4, StrictRotated, core.GridDiamond, nil); err == nil {
		t.Error("expected error for empty partial")
	}
	full := twoBeatPartial()
	if _, err := Generate(full, 2, StrictRotated, core.GridDiamond, nil); err == nil {
		t.Error("expected error when partial already at target length")
	}
	if _, err := Generate(full, 4, "spiral", core.GridDiamond, nil); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestGenerate_RequiresFullFirstHalf(t *testing.T) {
	// one beat toward a target of 8: every variant sources the second
	// half from the first, so a short partial cannot be continued
	partial := core.Sequence{Beats: twoBeatPartial().Beats[:1]}
	for _, v := range Variants {
		_, err := Generate(partial, 8, v, core.GridDiamond, nil)
		if err == nil {
			t.Fatalf("%s: expected error for partial shorter than half", v)
		}
		if !strings.Contains(err.Error(), "first half") {
			t.Errorf("%s: unexpected error: %v", v, err)
		}
	}
}

func TestClassifyCAP_OddLengthHasNoVariant(t *testing.T) {
	seq := core.Sequence{Beats: fourBeatPartial().Beats[:3]}
	r := ClassifyCAP(seq, core.GridDiamond, nil)
	if r.Variant() != "" {
		t.Errorf("odd length sequence classified as %q", r.Variant())
	}
}

func TestClassifyCAP_PositionFlags(t *testing.T) {
	seq := fourBeatPartial()
	r := ClassifyCAP(seq, core.GridDiamond, nil)
	if !r.EndsAtStartPos || !r.CanBeCAP {
		t.Errorf("quarter walk returns to alpha3 exactly, got ends=%v can=%v",
			r.EndsAtStartPos, r.CanBeCAP)
	}

	// ending in the same family but a different slot can still close
	seq.Beats[3].EndPos = "alpha5"
	r = ClassifyCAP(seq, core.GridDiamond, nil)
	if r.EndsAtStartPos {
		t.Error("alpha5 is not alpha3, ends_at_start_pos must be false")
	}
	if !r.CanBeCAP {
		t.Error("alpha5 and alpha3 share a family, can_be_cap must be true")
	}

	seq.Beats[3].EndPos = "beta5"
	r = ClassifyCAP(seq, core.GridDiamond, nil)
	if r.CanBeCAP {
		t.Error("beta is a different family, can_be_cap must be false")
	}
}
