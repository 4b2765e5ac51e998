// pkg/core/letter.go
package core

// Letter is the symbolic classification of a beat, drawn from the fixed
// alphabet. Dash-composite letters carry a trailing "-".
type Letter string

// LetterType is one of the six static partitions of the alphabet.
type LetterType string

const (
	TypeDualShift  LetterType = "dual_shift"
	TypeShift      LetterType = "shift"
	TypeCrossShift LetterType = "cross_shift"
	TypeDash       LetterType = "dash"
	TypeDualDash   LetterType = "dual_dash"
	TypeStatic     LetterType = "static"
)

// Dash-family letters referenced by name in the placement tables.
const (
	LetterPhi     Letter = "Φ"
	LetterPsi     Letter = "Ψ"
	LetterLambda  Letter = "Λ"
	LetterPhiDash Letter = "Φ-"
	LetterPsiDash Letter = "Ψ-"
	LetterLambdaDash Letter = "Λ-"
)

var (
	dualShiftLetters = []Letter{
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K",
		"L", "M", "N", "O", "P", "Q", "R", "S", "T", "U", "V",
	}
	shiftLetters      = []Letter{"W", "X", "Y", "Z", "Σ", "Δ", "θ", "Ω"}
	crossShiftLetters = []Letter{"W-", "X-", "Y-", "Z-", "Σ-", "Δ-", "θ-", "Ω-"}
	dashLetters       = []Letter{LetterPhi, LetterPsi, LetterLambda}
	dualDashLetters   = []Letter{LetterPhiDash, LetterPsiDash, LetterLambdaDash}
	staticLetters     = []Letter{"α", "β", "Γ"}

	letterTypes = map[Letter]LetterType{}
)

func init() {
	for _, group := range []struct {
		letters []Letter
		t       LetterType
	}{
		{dualShiftLetters, TypeDualShift},
		{shiftLetters, TypeShift},
		{crossShiftLetters, TypeCrossShift},
		{dashLetters, TypeDash},
		{dualDashLetters, TypeDualDash},
		{staticLetters, TypeStatic},
	} {
		for _, l := range group.letters {
			letterTypes[l] = group.t
		}
	}
}

// Alphabet returns every letter of the alphabet in partition order.
func Alphabet() []Letter {
	out := make([]Letter, 0, len(letterTypes))
	out = append(out, dualShiftLetters...)
	out = append(out, shiftLetters...)
	out = append(out, crossShiftLetters...)
	out = append(out, dashLetters...)
	out = append(out, dualDashLetters...)
	out = append(out, staticLetters...)
	return out
}

// TypeOf returns the letter's partition, or "" for a blank or unknown
// letter.
func (l Letter) TypeOf() LetterType {
	return letterTypes[l]
}

// CrossShift reports whether the letter pairs a shift with a dash.
func (l Letter) CrossShift() bool {
	return l.TypeOf() == TypeCrossShift
}

// DualDashPaired reports whether the letter is one of the two letters
// whose dashes pair into a combined double-dash shape, which get
// color-keyed arrow anchors instead of the default dash table.
func (l Letter) DualDashPaired() bool {
	return l == LetterPhiDash || l == LetterPsiDash
}
