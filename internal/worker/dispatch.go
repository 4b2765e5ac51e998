package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pictoseq/engine/internal/cap"
	"github.com/pictoseq/engine/internal/dispatcher"
	"github.com/pictoseq/engine/internal/influx"
	"github.com/pictoseq/engine/internal/util"
	"github.com/pictoseq/engine/pkg/core"
)

// RegisterHandlers registers all engine command handlers with the
// dispatcher. Queries stay synchronous; autosaves go through a small
// buffer so an editor burst never blocks on the backend.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(":CLASSIFY:BEAT:", m.handleClassifyBeat, dispatcher.Logged())
	d.Register(":RESOLVE:ANCHOR:", m.handleResolveAnchor, dispatcher.Logged())
	d.Register(":END:ORIENTATION:", m.handleEndOrientation, dispatcher.Logged())
	d.Register(":GENERATE:CAP:", m.handleGenerateCAP, dispatcher.Logged())
	d.Register(":VERIFY:CAP:", m.handleVerifyCAP, dispatcher.Logged())
	d.Register(":APPLY:OVERRIDE:", m.handleApplyOverride, dispatcher.Logged())
	d.Register(":SAVE:SEQUENCE:", m.handleSaveSequence, dispatcher.Logged())
	d.Register(":SAVE:SEQUENCE:ASYNC:", m.handleSaveSequenceAsync, dispatcher.Buffered(100), dispatcher.Logged())
	d.Register(":METRIC:", m.handleMetric, dispatcher.Buffered(1000))
}

// :METRIC: <bucket> <measurement> [tag::... field::...]
func (m *Manager) handleMetric(e dispatcher.Event) (any, error) {
	if m.deps.Influx == nil {
		return "dropped", nil
	}
	if len(e.Args) < 2 {
		return nil, ErrMissingArgs
	}

	bucket, point, err := influx.ProcessMetricData(e.Args, util.FixEscapeQuotes, util.TrimQuotes)
	if err != nil {
		return nil, err
	}
	if err := m.deps.Influx.WritePoint(context.Background(), bucket, point); err != nil {
		return nil, err
	}
	return "ok", nil
}

func decodeBeat(args []string) (core.Beat, error) {
	if len(args) < 1 {
		return core.Beat{}, ErrMissingArgs
	}
	var b core.Beat
	raw := util.FixEscapeQuotes(util.TrimQuotes(args[0]))
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return core.Beat{}, fmt.Errorf("decoding beat: %w", err)
	}
	return b, nil
}

func decodeSequence(args []string) (core.Sequence, error) {
	if len(args) < 1 {
		return core.Sequence{}, ErrMissingArgs
	}
	var seq core.Sequence
	raw := util.FixEscapeQuotes(util.TrimQuotes(args[0]))
	if err := json.Unmarshal([]byte(raw), &seq); err != nil {
		return core.Sequence{}, fmt.Errorf("decoding sequence: %w", err)
	}
	return seq, nil
}

// :CLASSIFY:BEAT: <beat json>
func (m *Manager) handleClassifyBeat(e dispatcher.Event) (any, error) {
	b, err := decodeBeat(e.Args)
	if err != nil {
		return nil, err
	}

	letter, lt, err := m.deps.Engine.Classify(b)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"letter":      string(letter),
		"letter_type": string(lt),
	}, nil
}

// :RESOLVE:ANCHOR: <beat json> <color>
func (m *Manager) handleResolveAnchor(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, ErrMissingArgs
	}
	b, err := decodeBeat(e.Args)
	if err != nil {
		return nil, err
	}
	color := core.Color(util.TrimQuotes(e.Args[1]))

	loc, err := m.deps.Engine.ResolveAnchor(b, color)
	if err != nil {
		return nil, err
	}
	return string(loc), nil
}

// :END:ORIENTATION: <beat json> <color>
func (m *Manager) handleEndOrientation(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, ErrMissingArgs
	}
	b, err := decodeBeat(e.Args)
	if err != nil {
		return nil, err
	}
	color := core.Color(util.TrimQuotes(e.Args[1]))

	ori, err := m.deps.Engine.EndOrientation(b, color)
	if err != nil {
		return nil, err
	}
	return string(ori), nil
}

// :GENERATE:CAP: <sequence json> <target beats> <variant>
func (m *Manager) handleGenerateCAP(e dispatcher.Event) (any, error) {
	if len(e.Args) < 3 {
		return nil, ErrMissingArgs
	}
	seq, err := decodeSequence(e.Args)
	if err != nil {
		return nil, err
	}
	target, err := strconv.Atoi(util.TrimQuotes(e.Args[1]))
	if err != nil {
		return nil, fmt.Errorf("parsing target beat count: %w", err)
	}
	variant := cap.Variant(util.TrimQuotes(e.Args[2]))

	out, err := m.deps.Engine.GenerateCAP(seq, target, variant)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding generated sequence: %w", err)
	}
	return string(raw), nil
}

// :VERIFY:CAP: <sequence json>
func (m *Manager) handleVerifyCAP(e dispatcher.Event) (any, error) {
	seq, err := decodeSequence(e.Args)
	if err != nil {
		return nil, err
	}

	res := m.deps.Engine.VerifyCAP(seq)
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encoding verification result: %w", err)
	}
	return string(raw), nil
}

// :APPLY:OVERRIDE: <beat json> <entry key> <value>
func (m *Manager) handleApplyOverride(e dispatcher.Event) (any, error) {
	if len(e.Args) < 3 {
		return nil, ErrMissingArgs
	}
	b, err := decodeBeat(e.Args)
	if err != nil {
		return nil, err
	}
	entryKey := util.TrimQuotes(e.Args[1])
	value := util.FixEscapeQuotes(util.TrimQuotes(e.Args[2]))

	key := m.deps.Engine.BeatKey(b)
	if err := m.deps.Engine.ApplyOverride(key, entryKey, value); err != nil {
		return nil, err
	}
	return "ok", nil
}

// :SAVE:SEQUENCE: <sequence json> <name>
func (m *Manager) handleSaveSequence(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, ErrMissingArgs
	}
	seq, err := decodeSequence(e.Args)
	if err != nil {
		return nil, err
	}
	name := util.FixEscapeQuotes(util.TrimQuotes(e.Args[1]))

	id, err := m.deps.Engine.SaveSequence(seq, name)
	if err != nil {
		return nil, err
	}
	return strconv.FormatUint(uint64(id), 10), nil
}

// :SAVE:SEQUENCE:ASYNC: <sequence json> <name>
func (m *Manager) handleSaveSequenceAsync(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, ErrMissingArgs
	}
	seq, err := decodeSequence(e.Args)
	if err != nil {
		return nil, err
	}
	name := util.FixEscapeQuotes(util.TrimQuotes(e.Args[1]))

	m.deps.Engine.SaveSequenceAsync(seq, name)
	return "queued", nil
}
