package scene

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/lamppool"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
)

// applyEffectsMethod is the lamp-pool call the executor issues; the
// CallFunc a deployment wires into the pool is responsible for turning this
// into whatever the lamp-facing transport actually expects.
const applyEffectsMethod = "ApplyEffects"

// Executor applies compiled Scenes and MasterScenes: it dispatches each
// lamp's descriptor list through the Lamp Session Pool and emits the
// accept-time signal once every per-lamp submission has been queued.
type Executor struct {
	catalog     *catalog.Catalog
	compiler    *Compiler
	pool        *lamppool.Pool
	broadcaster *signal.Broadcaster
}

// NewExecutor builds an Executor from its collaborators.
func NewExecutor(c *catalog.Catalog, compiler *Compiler, pool *lamppool.Pool, b *signal.Broadcaster) *Executor {
	return &Executor{catalog: c, compiler: compiler, pool: pool, broadcaster: b}
}

// ApplyScene compiles and dispatches sceneID, emitting SceneApplied once
// every per-lamp submission has been accepted onto its queue (not once the
// lamps have actually executed it).
func (e *Executor) ApplyScene(ctx context.Context, sceneID string) (ApplyResult, error) {
	sc, ok := e.catalog.Scenes.Get(sceneID)
	if !ok {
		return ApplyResult{}, fmt.Errorf("scene: %w: %s", lsftypes.ErrNotFound, sceneID)
	}

	result, err := e.dispatch(ctx, sc, sceneID, time.Now())
	if err != nil {
		return ApplyResult{}, err
	}

	e.broadcaster.SceneApplied(ctx, sceneID)
	return result, nil
}

// ApplyMasterScene computes a single t0 and applies every contained Scene
// concurrently against it, in declaration order for result bookkeeping.
// MasterSceneApplied fires once every contained scene's per-lamp
// submissions have been accepted.
func (e *Executor) ApplyMasterScene(ctx context.Context, masterID string) ([]ApplyResult, error) {
	ms, ok := e.catalog.MasterScenes.Get(masterID)
	if !ok {
		return nil, fmt.Errorf("scene: %w: %s", lsftypes.ErrNotFound, masterID)
	}

	t0 := time.Now()
	results := make([]ApplyResult, len(ms.Scenes))
	errs := make([]error, len(ms.Scenes))

	var wg sync.WaitGroup
	for i, sceneID := range ms.Scenes {
		wg.Add(1)
		go func(i int, sceneID string) {
			defer wg.Done()
			sc, ok := e.catalog.Scenes.Get(sceneID)
			if !ok {
				errs[i] = fmt.Errorf("scene: %w: %s", lsftypes.ErrNotFound, sceneID)
				return
			}
			res, err := e.dispatch(ctx, sc, sceneID, t0)
			results[i] = res
			errs[i] = err
		}(i, sceneID)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	e.broadcaster.MasterSceneApplied(ctx, masterID)
	return results, nil
}

// dispatch compiles sc and submits every lamp's descriptor list, without
// emitting any signal — callers decide when all their work is done.
func (e *Executor) dispatch(ctx context.Context, sc lsftypes.Scene, sceneID string, t0 time.Time) (ApplyResult, error) {
	perLamp, skipped, err := e.compiler.Compile(sc, t0)
	if err != nil {
		return ApplyResult{}, err
	}

	lampIDs := make([]string, 0, len(perLamp))
	for lampID, descriptors := range perLamp {
		if _, err := e.pool.SubmitAsync(ctx, lampID, applyEffectsMethod, ApplyEffectsArgs{Descriptors: descriptors}); err != nil {
			return ApplyResult{}, fmt.Errorf("scene: dispatch to lamp %s: %w", lampID, err)
		}
		lampIDs = append(lampIDs, lampID)
	}

	return ApplyResult{SceneID: sceneID, Skipped: skipped, LampIDs: lampIDs}, nil
}
