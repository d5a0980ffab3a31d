package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAppliesDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Initialize(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Device.ID)
	assert.Equal(t, "lsf.controllerd", cfg.Device.BusName)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTP.Addr)
	assert.Equal(t, DefaultCatalogCap, cfg.Catalog.MaxEntitiesPerType)
	assert.Equal(t, DefaultCallTimeout, cfg.Dispatch.CallTimeout)
	assert.Equal(t, DefaultLampPoolBackoff(), cfg.LampPool.Backoff)
}

func TestInitializeOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `
device:
  id: west-wing-01
  name: West Wing Controller
  bus_name: lsf.west-wing
  rank: 42
http:
  addr: ":9090"
catalog:
  max_entities_per_type: 50
dispatch:
  call_timeout: 5s
lamp_pool:
  backoff: ["50ms", "200ms", "800ms"]
leader:
  ignore_cap: 16
  ignore_ttl: 1m
cleanup:
  grace_window: 10s
  interval: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "controllerd.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "west-wing-01", cfg.Device.ID)
	assert.Equal(t, uint64(42), cfg.Device.Rank)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 50, cfg.Catalog.MaxEntitiesPerType)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.CallTimeout)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 200 * time.Millisecond, 800 * time.Millisecond}, cfg.LampPool.Backoff)
	assert.Equal(t, 16, cfg.Leader.IgnoreCap)
	assert.Equal(t, time.Minute, cfg.Leader.IgnoreTTL)
	assert.Equal(t, 10*time.Second, cfg.Cleanup.GraceWindow)
	assert.Equal(t, 2*time.Second, cfg.Cleanup.Interval)
}

func TestInitializeRejectsInvalidCleanupBounds(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `
cleanup:
  grace_window: 1s
  interval: 5s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "controllerd.yaml"), []byte(yamlContent), 0o644))

	_, err := Initialize(context.Background(), dir)
	assert.ErrorContains(t, err, "interval")
}

func TestExpandEnvInYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LSF_BUS_NAME", "lsf.from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "controllerd.yaml"), []byte("device:\n  bus_name: ${LSF_BUS_NAME}\n"), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "lsf.from-env", cfg.Device.BusName)
}
