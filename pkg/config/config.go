package config

import "time"

// Config is the fully-resolved, validated configuration for one
// cmd/controllerd process: its device identity, HTTP surface, and the
// tunables of every domain component it wires together.
type Config struct {
	configDir string

	Device  DeviceConfig
	HTTP    HTTPConfig
	Catalog CatalogConfig
	Dispatch DispatchConfig
	LampPool LampPoolConfig
	Leader  LeaderConfig
	Cleanup CleanupConfig
}

// ConfigDir returns the directory Initialize loaded this configuration from.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// DeviceConfig identifies this Controller Service instance on the bus and
// seeds its leader-election rank.
type DeviceConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	BusName string `yaml:"bus_name"`
	Rank    uint64 `yaml:"rank"`
	Port    uint16 `yaml:"port"`
}

// HTTPConfig configures the gin control surface.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// CatalogConfig bounds the Entity Catalog's admission control.
type CatalogConfig struct {
	MaxEntitiesPerType int `yaml:"max_entities_per_type"`
}

// DispatchConfig bounds the Async Call Dispatcher.
type DispatchConfig struct {
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// LampPoolConfig bounds the Lamp Session Pool's retry behavior.
type LampPoolConfig struct {
	Backoff []time.Duration `yaml:"backoff"`
}

// LeaderConfig bounds the Leader Tracker's ignore_set.
type LeaderConfig struct {
	IgnoreCap int           `yaml:"ignore_cap"`
	IgnoreTTL time.Duration `yaml:"ignore_ttl"`
}

// CleanupConfig bounds the lamp grace-window eviction sweep.
type CleanupConfig struct {
	GraceWindow time.Duration `yaml:"grace_window"`
	Interval    time.Duration `yaml:"interval"`
}
