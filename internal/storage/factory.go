// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/pictoseq/engine/internal/config"
)

// Constructor builds one backend flavor. The concrete packages register
// themselves here so this package stays import-cycle free.
type Constructor func(cfg config.StorageConfig) (Backend, error)

var constructors = map[string]Constructor{}

// Register installs a backend constructor under a storage type name.
func Register(name string, c Constructor) {
	constructors[name] = c
}

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	c, ok := constructors[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
	return c(cfg)
}
