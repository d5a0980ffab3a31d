package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/lamppool"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

func alwaysFail(context.Context, string, string, any) error {
	return lsftypes.ErrLampUnreachable
}

func TestSweepEvictsLampPastGraceWindow(t *testing.T) {
	c := catalog.New(lsftypes.LampState{})
	c.AddLamp(lsftypes.Lamp{ID: "lamp-1"})

	pool := lamppool.New(alwaysFail)
	pool.SetBackoff(nil) // fail immediately, no retries
	pool.Discover("lamp-1")
	_ = pool.Submit(context.Background(), "lamp-1", "Ping", nil)

	status := pool.Snapshot()["lamp-1"]
	require.Equal(t, lamppool.StateLost, status.State)

	svc := NewService(c, pool, 0, time.Millisecond)
	svc.sweep()

	_, found := c.Lamps.Get("lamp-1")
	assert.False(t, found)
	_, found = pool.State("lamp-1")
	assert.False(t, found)
}

func TestSweepPreservesLampWithinGraceWindow(t *testing.T) {
	c := catalog.New(lsftypes.LampState{})
	c.AddLamp(lsftypes.Lamp{ID: "lamp-1"})

	pool := lamppool.New(alwaysFail)
	pool.SetBackoff(nil)
	pool.Discover("lamp-1")
	_ = pool.Submit(context.Background(), "lamp-1", "Ping", nil)

	svc := NewService(c, pool, time.Hour, time.Millisecond)
	svc.sweep()

	_, found := c.Lamps.Get("lamp-1")
	assert.True(t, found)
}

func TestStartStop(t *testing.T) {
	c := catalog.New(lsftypes.LampState{})
	pool := lamppool.New(alwaysFail)
	svc := NewService(c, pool, time.Hour, time.Millisecond)

	svc.Start(context.Background())
	svc.Stop()
}
