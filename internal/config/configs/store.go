package configs

import (
	"fmt"
	"strings"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Store selects where campaigns, contributions and the reward ledger live.
type Store struct {
	Driver string `env:"DRIVER" envDefault:"memory"`
}

// Normalized returns the lower-cased driver name or an error for unknown
// drivers.
func (c Store) Normalized() (string, error) {
	switch d := strings.ToLower(strings.TrimSpace(c.Driver)); d {
	case StoreMemory, StorePostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unknown store driver %q", c.Driver)
	}
}
