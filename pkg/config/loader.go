package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// controllerdYAML represents the complete controllerd.yaml file structure.
// Every field is optional; Initialize fills gaps with the built-in defaults
// in defaults.go.
type controllerdYAML struct {
	Device   *DeviceConfig   `yaml:"device"`
	HTTP     *HTTPConfig     `yaml:"http"`
	Catalog  *CatalogConfig  `yaml:"catalog"`
	Dispatch *dispatchYAML   `yaml:"dispatch"`
	LampPool *lampPoolYAML   `yaml:"lamp_pool"`
	Leader   *leaderYAML     `yaml:"leader"`
	Cleanup  *cleanupYAML    `yaml:"cleanup"`
}

// Durations are accepted as strings ("10s") in YAML, so the wire structs use
// string fields and are converted to time.Duration during resolution.
type dispatchYAML struct {
	CallTimeout string `yaml:"call_timeout"`
}

type lampPoolYAML struct {
	Backoff []string `yaml:"backoff"`
}

type leaderYAML struct {
	IgnoreCap int    `yaml:"ignore_cap"`
	IgnoreTTL string `yaml:"ignore_ttl"`
}

type cleanupYAML struct {
	GraceWindow string `yaml:"grace_window"`
	Interval    string `yaml:"interval"`
}

// Initialize loads, validates, and returns a ready-to-use Config.
//
// Steps performed:
//  1. Load controllerd.yaml from configDir, if present
//  2. Expand environment variables
//  3. Apply built-in defaults for every unset field
//  4. Validate the result
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized",
		"device_id", cfg.Device.ID, "bus_name", cfg.Device.BusName, "http_addr", cfg.HTTP.Addr)
	return cfg, nil
}

func load(_ context.Context, configDir string) (*Config, error) {
	raw, err := loadYAML(configDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		configDir: configDir,
		Device: DeviceConfig{
			ID:      uuid.New().String(),
			BusName: "lsf.controllerd",
			Rank:    0,
		},
		HTTP:    HTTPConfig{Addr: DefaultHTTPAddr},
		Catalog: CatalogConfig{MaxEntitiesPerType: DefaultCatalogCap},
		Dispatch: DispatchConfig{CallTimeout: DefaultCallTimeout},
		LampPool: LampPoolConfig{Backoff: DefaultLampPoolBackoff()},
		Leader:   LeaderConfig{IgnoreCap: DefaultIgnoreCap, IgnoreTTL: DefaultIgnoreTTL},
		Cleanup:  CleanupConfig{GraceWindow: DefaultCleanupGraceWindow, Interval: DefaultCleanupInterval},
	}
	if raw == nil {
		return cfg, nil
	}

	if raw.Device != nil {
		if raw.Device.ID != "" {
			cfg.Device.ID = raw.Device.ID
		}
		if raw.Device.Name != "" {
			cfg.Device.Name = raw.Device.Name
		}
		if raw.Device.BusName != "" {
			cfg.Device.BusName = raw.Device.BusName
		}
		cfg.Device.Rank = raw.Device.Rank
		cfg.Device.Port = raw.Device.Port
	}
	if raw.HTTP != nil && raw.HTTP.Addr != "" {
		cfg.HTTP.Addr = raw.HTTP.Addr
	}
	if raw.Catalog != nil && raw.Catalog.MaxEntitiesPerType > 0 {
		cfg.Catalog.MaxEntitiesPerType = raw.Catalog.MaxEntitiesPerType
	}
	if raw.Dispatch != nil && raw.Dispatch.CallTimeout != "" {
		d, err := parseDuration("dispatch.call_timeout", raw.Dispatch.CallTimeout)
		if err != nil {
			return nil, err
		}
		cfg.Dispatch.CallTimeout = d
	}
	if raw.LampPool != nil && len(raw.LampPool.Backoff) > 0 {
		backoff := make([]time.Duration, len(raw.LampPool.Backoff))
		for i, s := range raw.LampPool.Backoff {
			d, err := parseDuration("lamp_pool.backoff", s)
			if err != nil {
				return nil, err
			}
			backoff[i] = d
		}
		cfg.LampPool.Backoff = backoff
	}
	if raw.Leader != nil {
		if raw.Leader.IgnoreCap > 0 {
			cfg.Leader.IgnoreCap = raw.Leader.IgnoreCap
		}
		if raw.Leader.IgnoreTTL != "" {
			d, err := parseDuration("leader.ignore_ttl", raw.Leader.IgnoreTTL)
			if err != nil {
				return nil, err
			}
			cfg.Leader.IgnoreTTL = d
		}
	}
	if raw.Cleanup != nil {
		if raw.Cleanup.GraceWindow != "" {
			d, err := parseDuration("cleanup.grace_window", raw.Cleanup.GraceWindow)
			if err != nil {
				return nil, err
			}
			cfg.Cleanup.GraceWindow = d
		}
		if raw.Cleanup.Interval != "" {
			d, err := parseDuration("cleanup.interval", raw.Cleanup.Interval)
			if err != nil {
				return nil, err
			}
			cfg.Cleanup.Interval = d
		}
	}

	return cfg, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, field, err)
	}
	return d, nil
}

// loadYAML reads controllerd.yaml from configDir. A missing file is not an
// error: Initialize falls back to built-in defaults entirely, matching the
// teacher's tolerance for an absent deploy/config directory in dev.
func loadYAML(configDir string) (*controllerdYAML, error) {
	path := filepath.Join(configDir, "controllerd.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewLoadError(path, err)
	}

	data = ExpandEnv(data)

	var raw controllerdYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &raw, nil
}
