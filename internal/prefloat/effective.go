// Package prefloat resolves a float motion to a concrete
// (motion type, prop rotation direction) before any other calculator
// sees it. Float is ambiguous on its own; the answer comes from the
// motion's own recorded prefloat fields, or an interactive override in
// the store, or a default when neither exists. Downstream calculators
// receive only concrete motions and never branch on float.
package prefloat

import (
	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/pkg/core"
)

// Effective returns attrs with a concrete motion type and rotation
// direction. Non-float motions pass through unchanged. The store may be
// nil when the caller has no override context (e.g. pure generation);
// resolution then uses the motion's prefloat fields only.
func Effective(attrs core.MotionAttributes, store *overrides.Store, key overrides.Key, color core.Color) core.MotionAttributes {
	if attrs.MotionType != core.MotionFloat {
		return attrs
	}

	motionType := attrs.PrefloatMotionType
	rotDir := attrs.PrefloatPropRotDir

	if store != nil {
		if motionType == "" {
			if v, ok := store.Get(key, overrides.ColorKey(overrides.KeyPrefloatMotionType, color)); ok {
				motionType = core.MotionType(v)
			}
		}
		if rotDir == "" {
			if v, ok := store.Get(key, overrides.ColorKey(overrides.KeyPrefloatPropRotDir, color)); ok {
				rotDir = core.RotationDirection(v)
			}
		}
	}

	// an unrecorded float reads as a pro in the hand's own rotation sense
	if motionType == "" {
		motionType = core.MotionPro
	}
	if rotDir == "" {
		rotDir = handSense(attrs)
	}

	attrs.MotionType = motionType
	attrs.PropRotDir = rotDir
	if attrs.Turns.IsFloat() {
		attrs.Turns = 0
	}
	return attrs
}

func handSense(attrs core.MotionAttributes) core.RotationDirection {
	if attrs.PropRotDir != "" && attrs.PropRotDir != core.NoRotation {
		return attrs.PropRotDir
	}
	return core.Clockwise
}
