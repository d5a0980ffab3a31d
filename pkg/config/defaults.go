package config

import "time"

// Built-in defaults applied to any field the YAML file leaves unset.
const (
	DefaultHTTPAddr = ":8080"

	DefaultCatalogCap = 100

	DefaultCallTimeout = 10 * time.Second

	DefaultLampPoolMaxRetries = 2

	DefaultIgnoreCap = 256
	DefaultIgnoreTTL = 5 * time.Minute

	DefaultCleanupGraceWindow = 30 * time.Second
	DefaultCleanupInterval    = 5 * time.Second
)

// DefaultLampPoolBackoff is the fixed retry schedule applied when the YAML
// file supplies no lamp_pool.backoff list, matching pkg/lamppool's own
// built-in schedule.
func DefaultLampPoolBackoff() []time.Duration {
	return []time.Duration{100 * time.Millisecond, 400 * time.Millisecond}
}
