package signal

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

// Broadcaster fans out signals to every client session currently joined to
// the Controller Service, and optionally to debug "tap" subscribers (the
// HTTP control surface's live-tail endpoint).
type Broadcaster struct {
	mu       sync.RWMutex
	sessions map[string]struct{}

	tapMu sync.RWMutex
	taps  map[string]chan []byte

	bus transport.Bus
}

// NewBroadcaster constructs a Broadcaster that emits over bus.
func NewBroadcaster(bus transport.Bus) *Broadcaster {
	return &Broadcaster{
		sessions: make(map[string]struct{}),
		taps:     make(map[string]chan []byte),
		bus:      bus,
	}
}

// AddSession registers a client session as a signal recipient, called when
// a client's Leader Tracker reports ConnectedToControllerService.
func (b *Broadcaster) AddSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[sessionID] = struct{}{}
}

// RemoveSession stops fanning signals to sessionID.
func (b *Broadcaster) RemoveSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, sessionID)
}

// Emit sends name/payload to every joined session and every debug tap.
// Sessions are snapshotted under the lock, then the lock is released before
// any I/O, the same ordering pkg/events/manager.go's Broadcast uses so a
// slow send can't stall session registration.
func (b *Broadcaster) Emit(ctx context.Context, name string, payload map[string]any) {
	b.mu.RLock()
	ids := make([]string, 0, len(b.sessions))
	for id := range b.sessions {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	for _, sessionID := range ids {
		if err := b.bus.EmitSignal(ctx, sessionID, name, payload); err != nil {
			slog.Warn("signal: emit failed", "signal", name, "session", sessionID, "error", err)
		}
	}

	b.fanTap(name, payload)
}

// Subscribe opens a debug tap that receives every signal emitted from this
// point on, JSON-encoded as {"signal": name, "payload": payload}. The
// returned channel is closed and the tap forgotten when unsubscribe is
// called. Sends to a full channel are dropped rather than blocking Emit.
func (b *Broadcaster) Subscribe() (ch <-chan []byte, tapID string, unsubscribe func()) {
	id := uuid.New().String()
	c := make(chan []byte, 64)

	b.tapMu.Lock()
	b.taps[id] = c
	b.tapMu.Unlock()

	return c, id, func() {
		b.tapMu.Lock()
		defer b.tapMu.Unlock()
		if existing, ok := b.taps[id]; ok {
			delete(b.taps, id)
			close(existing)
		}
	}
}

func (b *Broadcaster) fanTap(name string, payload map[string]any) {
	b.tapMu.RLock()
	defer b.tapMu.RUnlock()
	if len(b.taps) == 0 {
		return
	}
	data, err := json.Marshal(map[string]any{"signal": name, "payload": payload})
	if err != nil {
		return
	}
	for _, ch := range b.taps {
		select {
		case ch <- data:
		default:
			slog.Warn("signal: dropping tap message, subscriber too slow", "signal", name)
		}
	}
}

// --- Catalog-change helpers: one Record call per mutated id, batched per
// request via Batch, flushed as a single coalesced signal per (entity, kind).

// SceneApplied fires when every per-lamp submission for a Scene apply has
// been accepted (not completed).
func (b *Broadcaster) SceneApplied(ctx context.Context, sceneID string) {
	b.Emit(ctx, "SceneApplied", map[string]any{"scene_id": sceneID})
}

// MasterSceneApplied fires when every contained Scene of a MasterScene
// apply has been accepted.
func (b *Broadcaster) MasterSceneApplied(ctx context.Context, masterID string) {
	b.Emit(ctx, "MasterSceneApplied", map[string]any{"master_id": masterID})
}

// LampStateChanged reports an observed lamp state change.
func (b *Broadcaster) LampStateChanged(ctx context.Context, lampID string, state lsftypes.LampState) {
	b.Emit(ctx, "LampStateChanged", map[string]any{"lamp_id": lampID, "state": state})
}

// DefaultLampStateChanged reports a change to the default (boot) preset.
func (b *Broadcaster) DefaultLampStateChanged(ctx context.Context, state lsftypes.LampState) {
	b.Emit(ctx, "DefaultLampStateChanged", map[string]any{"state": state})
}

// ControllerServiceLightingReset reports a full catalog reset.
func (b *Broadcaster) ControllerServiceLightingReset(ctx context.Context) {
	b.Emit(ctx, "ControllerServiceLightingReset", map[string]any{})
}
