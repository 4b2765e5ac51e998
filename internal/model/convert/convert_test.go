package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pictoseq/engine/pkg/core"
)

func sampleSequence() core.Sequence {
	return core.Sequence{
		StartPosition: &core.Beat{
			BeatNumber: 0, EndPos: "alpha3",
			Blue: core.MotionAttributes{MotionType: core.MotionStatic, StartLoc: core.West, EndLoc: core.West},
			Red:  core.MotionAttributes{MotionType: core.MotionStatic, StartLoc: core.East, EndLoc: core.East},
		},
		Beats: []core.Beat{
			{
				BeatNumber: 1, Letter: "A", LetterType: core.TypeDualShift,
				StartPos: "alpha3", EndPos: "alpha5", Timing: "split",
				Blue: core.MotionAttributes{
					MotionType: core.MotionPro, StartLoc: core.West, EndLoc: core.North,
					StartOri: core.OrientIn, EndOri: core.OrientOut, Turns: 1, PropRotDir: core.Clockwise,
				},
				Red: core.MotionAttributes{
					MotionType: core.MotionFloat, StartLoc: core.East, EndLoc: core.South,
					StartOri: core.OrientIn, Turns: core.TurnsFloat,
					PrefloatMotionType: core.MotionPro, PrefloatPropRotDir: core.Clockwise,
				},
			},
			{
				BeatNumber: 2, Letter: "B",
				StartPos: "alpha5", EndPos: "alpha3",
				Blue: core.MotionAttributes{MotionType: core.MotionAnti, StartLoc: core.North, EndLoc: core.West, Turns: 0.5, PropRotDir: core.CounterClockwise},
				Red:  core.MotionAttributes{MotionType: core.MotionAnti, StartLoc: core.South, EndLoc: core.East, Turns: 0.5, PropRotDir: core.CounterClockwise},
			},
		},
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	seq := sampleSequence()

	rec := CoreToSequence(seq, "demo", core.GridDiamond, "strict_rotated", true)
	assert.Equal(t, "demo", rec.Name)
	assert.Equal(t, "AB", rec.Word)
	assert.Equal(t, "diamond", rec.GridMode)
	assert.Equal(t, 2, rec.Length)
	assert.True(t, rec.EndsAtStart)
	require.Len(t, rec.Beats, 2)
	require.NotEmpty(t, rec.StartPosition)

	back, err := SequenceToCore(rec)
	require.NoError(t, err)
	require.NotNil(t, back.StartPosition)
	assert.Equal(t, seq.StartPosition.EndPos, back.StartPosition.EndPos)
	require.Len(t, back.Beats, 2)
	assert.Equal(t, seq.Beats[0], back.Beats[0])
	assert.Equal(t, seq.Beats[1], back.Beats[1])
}

func TestBeatRoundTrip_FloatTurns(t *testing.T) {
	b := sampleSequence().Beats[0]

	rec := CoreToBeat(b)
	assert.Contains(t, string(rec.Red), `"fl"`, "float turns must encode as fl")

	back, err := BeatToCore(rec)
	require.NoError(t, err)
	assert.True(t, back.Red.Turns.IsFloat())
	assert.Equal(t, core.MotionPro, back.Red.PrefloatMotionType)
}

func TestBeatToCore_CorruptJSON(t *testing.T) {
	rec := CoreToBeat(sampleSequence().Beats[0])
	rec.Blue = []byte("{broken")

	_, err := BeatToCore(rec)
	require.Error(t, err)
}

func TestWord(t *testing.T) {
	assert.Equal(t, "AB", Word(sampleSequence()))
	assert.Equal(t, "", Word(core.Sequence{}))
}
