// Package worker wires the dispatcher's command surface to the engine
// service: each registered handler decodes its string arguments, calls
// one engine operation and encodes the result as JSON.
package worker

import (
	"fmt"

	"github.com/pictoseq/engine/internal/engine"
	"github.com/pictoseq/engine/internal/influx"
	"github.com/pictoseq/engine/internal/logging"
)

// ErrMissingArgs is returned when a command arrives with fewer
// arguments than its handler needs.
var ErrMissingArgs = fmt.Errorf("command is missing arguments")

// Dependencies holds all dependencies for the worker manager.
type Dependencies struct {
	Engine     *engine.Service
	LogManager *logging.SlogManager

	// Influx may be nil; the metric handler then drops its input.
	Influx *influx.Manager
}

// Manager owns the command handlers.
type Manager struct {
	deps Dependencies
}

// NewManager creates a new worker manager.
func NewManager(deps Dependencies) *Manager {
	return &Manager{deps: deps}
}
