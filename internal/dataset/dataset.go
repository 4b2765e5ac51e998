// Package dataset loads the reference alphabet: one canonical record
// per letter and position pair, carrying the per-color motion template
// the classifier matches beats against.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pictoseq/engine/pkg/core"
)

// Template is one canonical alphabet entry.
type Template struct {
	Letter    core.Letter         `json:"letter"`
	StartPos  core.PositionKey    `json:"start_pos"`
	EndPos    core.PositionKey    `json:"end_pos"`
	Timing    string              `json:"timing"`
	Direction string              `json:"direction"`
	Blue      core.MotionAttributes `json:"blue_attributes"`
	Red       core.MotionAttributes `json:"red_attributes"`
}

// Dataset indexes templates two ways: by letter for template lookup
// during generation, and by structural key for classification.
type Dataset struct {
	byLetter map[core.Letter][]Template
	byShape  map[string]Template
}

// ShapeKey is the structural identity the classifier matches on: the
// combined positions plus each color's motion pattern. Two templates
// sharing a shape key would make classification ambiguous, so Load
// rejects them.
func ShapeKey(startPos, endPos core.PositionKey, blue, red core.MotionAttributes) string {
	return fmt.Sprintf("%s|%s|%s|%s", startPos, endPos, motionPattern(blue), motionPattern(red))
}

// motionPattern reduces a motion to the classifier's matching terms:
// motion type, whether the prop rotates at all, and the signed octant
// travel from start to end. Concrete orientations and turn counts are
// deliberately excluded; they vary freely within one letter.
func motionPattern(m core.MotionAttributes) string {
	rotating := "rot"
	if m.PropRotDir == core.NoRotation || m.PropRotDir == "" {
		rotating = "none"
	}
	return fmt.Sprintf("%s:%s:%d", m.MotionType, rotating, octantTravel(m.StartLoc, m.EndLoc))
}

func octantTravel(start, end core.Location) int {
	si, ei := -1, -1
	for i, l := range core.AllLocations {
		if l == start {
			si = i
		}
		if l == end {
			ei = i
		}
	}
	if si < 0 || ei < 0 {
		return -1
	}
	d := (ei - si) % 8
	if d < 0 {
		d += 8
	}
	return d
}

// Load reads the alphabet file, a JSON object keyed by letter with a
// list of template records per letter.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alphabet dataset: %w", err)
	}
	return Parse(raw)
}

// Parse builds a dataset from raw JSON, validating letters and shape
// disjointness.
func Parse(raw []byte) (*Dataset, error) {
	var byLetter map[core.Letter][]Template
	if err := json.Unmarshal(raw, &byLetter); err != nil {
		return nil, fmt.Errorf("parsing alphabet dataset: %w", err)
	}

	ds := &Dataset{
		byLetter: make(map[core.Letter][]Template, len(byLetter)),
		byShape:  make(map[string]Template),
	}
	for letter, templates := range byLetter {
		if letter.TypeOf() == "" {
			return nil, fmt.Errorf("alphabet dataset names unknown letter %q", letter)
		}
		for _, tpl := range templates {
			tpl.Letter = letter
			key := ShapeKey(tpl.StartPos, tpl.EndPos, tpl.Blue, tpl.Red)
			if prev, dup := ds.byShape[key]; dup {
				return nil, fmt.Errorf("alphabet dataset not position-disjoint: %q and %q share shape %s",
					prev.Letter, letter, key)
			}
			ds.byShape[key] = tpl
			ds.byLetter[letter] = append(ds.byLetter[letter], tpl)
		}
	}
	return ds, nil
}

// Templates returns the canonical records for one letter.
func (d *Dataset) Templates(l core.Letter) []Template {
	return d.byLetter[l]
}

// Match returns the unique template with the given structural shape.
func (d *Dataset) Match(startPos, endPos core.PositionKey, blue, red core.MotionAttributes) (Template, bool) {
	tpl, ok := d.byShape[ShapeKey(startPos, endPos, blue, red)]
	return tpl, ok
}

// Len reports the total template count.
func (d *Dataset) Len() int {
	return len(d.byShape)
}
