// pkg/core/errors.go
package core

import "errors"

// ErrInvalidTurns marks a turn count that is negative or not a multiple
// of 0.5. Calculators refuse to compute geometry from it.
var ErrInvalidTurns = errors.New("invalid turns")
