package configs

import "time"

// Redis configures the idempotency store. An empty Address keeps
// idempotency records in process memory.
type Redis struct {
	// Address is either host:port or a redis:// URL.
	Address        string        `env:"ADDRESS"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}
