// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/pictoseq/engine/internal/model"
	"github.com/pictoseq/engine/pkg/core"
)

// motionToJSON converts motion attributes to a datatypes.JSON column value.
func motionToJSON(m core.MotionAttributes) datatypes.JSON {
	data, err := json.Marshal(m)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

// CoreToBeat converts a core.Beat to a GORM model.BeatRecord.
func CoreToBeat(b core.Beat) model.BeatRecord {
	return model.BeatRecord{
		BeatNumber: b.BeatNumber,
		Letter:     string(b.Letter),
		LetterType: string(b.LetterType),
		StartPos:   string(b.StartPos),
		EndPos:     string(b.EndPos),
		Timing:     b.Timing,
		Direction:  b.Direction,
		Blue:       motionToJSON(b.Blue),
		Red:        motionToJSON(b.Red),
	}
}

// BeatToCore converts a GORM model.BeatRecord back to a core.Beat.
func BeatToCore(r model.BeatRecord) (core.Beat, error) {
	b := core.Beat{
		BeatNumber: r.BeatNumber,
		Letter:     core.Letter(r.Letter),
		LetterType: core.LetterType(r.LetterType),
		StartPos:   core.PositionKey(r.StartPos),
		EndPos:     core.PositionKey(r.EndPos),
		Timing:     r.Timing,
		Direction:  r.Direction,
	}
	if len(r.Blue) > 0 {
		if err := json.Unmarshal(r.Blue, &b.Blue); err != nil {
			return b, fmt.Errorf("decoding blue attributes of beat %d: %w", r.BeatNumber, err)
		}
	}
	if len(r.Red) > 0 {
		if err := json.Unmarshal(r.Red, &b.Red); err != nil {
			return b, fmt.Errorf("decoding red attributes of beat %d: %w", r.BeatNumber, err)
		}
	}
	return b, nil
}

// CoreToSequence converts a core.Sequence plus its summary fields to a
// GORM model.SequenceRecord with nested beat rows.
func CoreToSequence(s core.Sequence, name string, gridMode core.GridMode, capVariant string, endsAtStart bool) model.SequenceRecord {
	rec := model.SequenceRecord{
		Name:        name,
		Word:        Word(s),
		GridMode:    string(gridMode),
		Length:      len(s.Beats),
		CapVariant:  capVariant,
		EndsAtStart: endsAtStart,
	}
	if s.StartPosition != nil {
		if data, err := json.Marshal(s.StartPosition); err == nil {
			rec.StartPosition = datatypes.JSON(data)
		}
	}
	rec.Beats = make([]model.BeatRecord, 0, len(s.Beats))
	for _, b := range s.Beats {
		rec.Beats = append(rec.Beats, CoreToBeat(b))
	}
	return rec
}

// SequenceToCore converts a GORM model.SequenceRecord back to a core.Sequence.
func SequenceToCore(rec model.SequenceRecord) (core.Sequence, error) {
	var s core.Sequence
	if len(rec.StartPosition) > 0 {
		var sp core.Beat
		if err := json.Unmarshal(rec.StartPosition, &sp); err != nil {
			return s, fmt.Errorf("decoding start position of sequence %d: %w", rec.ID, err)
		}
		s.StartPosition = &sp
	}
	s.Beats = make([]core.Beat, 0, len(rec.Beats))
	for _, r := range rec.Beats {
		b, err := BeatToCore(r)
		if err != nil {
			return s, err
		}
		s.Beats = append(s.Beats, b)
	}
	return s, nil
}

// Word concatenates the sequence's letters, the searchable summary of
// what the sequence spells.
func Word(s core.Sequence) string {
	out := ""
	for _, b := range s.Beats {
		out += string(b.Letter)
	}
	return out
}
