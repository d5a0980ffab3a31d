package scene

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/depgraph"
	"github.com/codeready-toolchain/lsf-controller/pkg/lamppool"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

func newTestExecutor(t *testing.T) (*catalog.Catalog, *Executor, *signal.Broadcaster) {
	t.Helper()
	c := catalog.New(lsftypes.LampState{})
	c.AddLamp(lsftypes.Lamp{ID: "lamp-1"})
	c.AddLamp(lsftypes.Lamp{ID: "lamp-2"})

	compiler := NewCompiler(c, depgraph.New(c))
	pool := lamppool.New(func(ctx context.Context, lampID, method string, args any) error { return nil })
	bus := transport.NewMemoryBus()
	bcast := signal.NewBroadcaster(bus)
	return c, NewExecutor(c, compiler, pool, bcast), bcast
}

func waitForSignal(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signal")
		return nil
	}
}

func TestExecutor_ApplySceneEmitsSceneApplied(t *testing.T) {
	c, exec, bcast := newTestExecutor(t)
	tapCh, _, unsub := bcast.Subscribe()
	defer unsub()

	sceneID, err := c.Scenes.Create(lsftypes.Scene{Components: []lsftypes.EffectComponent{{
		Kind:   lsftypes.EffectTransitionToState,
		Target: lsftypes.EffectTarget{Lamps: map[string]struct{}{"lamp-1": {}}},
	}}}, "", "")
	require.NoError(t, err)

	result, err := exec.ApplyScene(context.Background(), sceneID)
	require.NoError(t, err)
	assert.Equal(t, sceneID, result.SceneID)
	assert.Contains(t, result.LampIDs, "lamp-1")

	raw := waitForSignal(t, tapCh)
	assert.Contains(t, string(raw), "SceneApplied")
}

func TestExecutor_ApplyMasterSceneSharesT0AndEmitsOnce(t *testing.T) {
	c, exec, bcast := newTestExecutor(t)
	tapCh, _, unsub := bcast.Subscribe()
	defer unsub()

	sceneA, err := c.Scenes.Create(lsftypes.Scene{Components: []lsftypes.EffectComponent{{
		Kind: lsftypes.EffectTransitionToState, Target: lsftypes.EffectTarget{Lamps: map[string]struct{}{"lamp-1": {}}},
	}}}, "", "")
	require.NoError(t, err)
	sceneB, err := c.Scenes.Create(lsftypes.Scene{Components: []lsftypes.EffectComponent{{
		Kind: lsftypes.EffectTransitionToState, Target: lsftypes.EffectTarget{Lamps: map[string]struct{}{"lamp-2": {}}},
	}}}, "", "")
	require.NoError(t, err)

	masterID, err := c.MasterScenes.Create(lsftypes.MasterScene{Scenes: []string{sceneA, sceneB}}, "", "")
	require.NoError(t, err)

	results, err := exec.ApplyMasterScene(context.Background(), masterID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	raw := waitForSignal(t, tapCh)
	assert.Contains(t, string(raw), "MasterSceneApplied")
}

func TestExecutor_ApplySceneUnknownIDFails(t *testing.T) {
	_, exec, _ := newTestExecutor(t)
	_, err := exec.ApplyScene(context.Background(), "missing")
	assert.Error(t, err)
}
