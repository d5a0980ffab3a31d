package config

import "fmt"

// Validator validates a loaded Config with clear, ordered error messages,
// matching the teacher's fail-fast staged-validation idiom.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for cfg.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll validates every section in dependency order, stopping at the
// first failure.
func (v *Validator) ValidateAll() error {
	if err := v.validateDevice(); err != nil {
		return fmt.Errorf("device validation failed: %w", err)
	}
	if err := v.validateHTTP(); err != nil {
		return fmt.Errorf("http validation failed: %w", err)
	}
	if err := v.validateCatalog(); err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}
	if err := v.validateDispatch(); err != nil {
		return fmt.Errorf("dispatch validation failed: %w", err)
	}
	if err := v.validateLampPool(); err != nil {
		return fmt.Errorf("lamp_pool validation failed: %w", err)
	}
	if err := v.validateLeader(); err != nil {
		return fmt.Errorf("leader validation failed: %w", err)
	}
	if err := v.validateCleanup(); err != nil {
		return fmt.Errorf("cleanup validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateDevice() error {
	d := v.cfg.Device
	if d.ID == "" {
		return fmt.Errorf("id must not be empty")
	}
	if d.BusName == "" {
		return fmt.Errorf("bus_name must not be empty")
	}
	return nil
}

func (v *Validator) validateHTTP() error {
	if v.cfg.HTTP.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	return nil
}

func (v *Validator) validateCatalog() error {
	if v.cfg.Catalog.MaxEntitiesPerType < 1 {
		return fmt.Errorf("max_entities_per_type must be at least 1, got %d", v.cfg.Catalog.MaxEntitiesPerType)
	}
	return nil
}

func (v *Validator) validateDispatch() error {
	if v.cfg.Dispatch.CallTimeout <= 0 {
		return fmt.Errorf("call_timeout must be positive, got %v", v.cfg.Dispatch.CallTimeout)
	}
	return nil
}

func (v *Validator) validateLampPool() error {
	for i, d := range v.cfg.LampPool.Backoff {
		if d <= 0 {
			return fmt.Errorf("backoff[%d] must be positive, got %v", i, d)
		}
	}
	return nil
}

func (v *Validator) validateLeader() error {
	l := v.cfg.Leader
	if l.IgnoreCap < 1 {
		return fmt.Errorf("ignore_cap must be at least 1, got %d", l.IgnoreCap)
	}
	if l.IgnoreTTL <= 0 {
		return fmt.Errorf("ignore_ttl must be positive, got %v", l.IgnoreTTL)
	}
	return nil
}

func (v *Validator) validateCleanup() error {
	c := v.cfg.Cleanup
	if c.GraceWindow <= 0 {
		return fmt.Errorf("grace_window must be positive, got %v", c.GraceWindow)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.Interval > c.GraceWindow {
		return fmt.Errorf("interval (%v) must not exceed grace_window (%v)", c.Interval, c.GraceWindow)
	}
	return nil
}
