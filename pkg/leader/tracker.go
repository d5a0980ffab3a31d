// Package leader implements the client-side Leader Tracker: it watches a
// stream of Controller Service announcements, picks the highest-ranked
// leader, joins a session with it, and recovers from session loss or leader
// change.
//
// Grounded on the teacher's pkg/session/manager.go (single-mutex in-memory
// record) and pkg/mcp/client.go (reconnection handling). All tracker state
// sits behind one mutex, and there is no retry backoff: each accepted
// announcement triggers exactly one join attempt.
package leader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

// CurrentLeader is the client's record of the Controller Service it
// believes is authoritative.
type CurrentLeader struct {
	BusName    string
	DeviceID   string
	DeviceName string
	Rank       uint64
	Port       uint16
	SessionID  string // empty until the join completes
}

// Attached reports whether a session has been established with this leader.
func (l CurrentLeader) Attached() bool {
	return l.SessionID != ""
}

// Events receives the callbacks the Leader Tracker emits. An embedding
// application's Client Façade implements this (or a thin adapter over it).
type Events interface {
	ConnectedToControllerService(deviceID string)
	ConnectToControllerServiceFailed(deviceID string, err error)
	DisconnectedFromControllerService()
	ControllerServiceNameChanged(deviceID, name string)
	IrrecoverableError(err error)
}

// Introspector fetches the set of method/signal names a newly-joined leader
// advertises. Supplements the distilled spec with the original source's
// object-introspection-on-join behavior (see SPEC_FULL.md §9).
type Introspector func(ctx context.Context, sessionID string) error

const (
	// defaultIgnoreCap bounds the ignore_set so it cannot grow unboundedly
	// across many leader rotations (spec.md §9 open question).
	defaultIgnoreCap = 256
	// defaultIgnoreTTL evicts ignore_set entries older than this even if
	// the cap isn't reached.
	defaultIgnoreTTL = 5 * time.Minute

	joinTimeout = 10 * time.Second
)

type ignoreEntry struct {
	insertedAt time.Time
}

// Tracker is the client-side Leader Tracker. All state is protected by a
// single mutex, per spec.md §4.1 ("Rules evaluated under a single mutex").
type Tracker struct {
	mu sync.Mutex

	current   *CurrentLeader
	ignoreSet map[string]ignoreEntry

	bus          transport.Bus
	events       Events
	introspector Introspector

	ignoreCap int
	ignoreTTL time.Duration

	unsubAnnounce func()
	unsubLoss     func()
}

// New constructs a Tracker bound to bus. Call Start to begin processing
// announcements and session-loss notifications.
func New(bus transport.Bus, events Events, introspector Introspector) *Tracker {
	return &Tracker{
		ignoreSet:    make(map[string]ignoreEntry),
		bus:          bus,
		events:       events,
		introspector: introspector,
		ignoreCap:    defaultIgnoreCap,
		ignoreTTL:    defaultIgnoreTTL,
	}
}

// SetIgnoreBounds overrides the default ignore_set cap (256) and eviction
// TTL (5m) from pkg/config.
func (t *Tracker) SetIgnoreBounds(cap int, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ignoreCap = cap
	t.ignoreTTL = ttl
}

// Start subscribes to the bus's announcement and session-loss streams.
func (t *Tracker) Start() {
	t.unsubAnnounce = t.bus.SubscribeAnnouncements(t.onAnnouncement)
	t.unsubLoss = t.bus.SubscribeSessionLoss(t.onSessionLost)
}

// Stop unsubscribes from the bus. Safe to call once.
func (t *Tracker) Stop() {
	if t.unsubAnnounce != nil {
		t.unsubAnnounce()
	}
	if t.unsubLoss != nil {
		t.unsubLoss()
	}
}

// Current returns a copy of the tracked leader record, or false if none.
func (t *Tracker) Current() (CurrentLeader, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return CurrentLeader{}, false
	}
	return *t.current, true
}

// onAnnouncement implements the rules of spec.md §4.1 under the tracker's
// single mutex. Suspension points (the async join) are kicked off from a
// goroutine so the mutex is never held across a bus call.
func (t *Tracker) onAnnouncement(ann transport.Announcement) {
	if !ann.IsLeader {
		return // rule 1
	}

	t.mu.Lock()

	if t.current != nil && ann.DeviceID == t.current.DeviceID {
		// rule 2: same leader, name may have changed.
		nameChanged := t.current.DeviceName != ann.DeviceName
		t.current.DeviceName = ann.DeviceName
		attached := t.current.Attached()
		t.mu.Unlock()
		if nameChanged && attached {
			t.events.ControllerServiceNameChanged(ann.DeviceID, ann.DeviceName)
		}
		return
	}

	if t.current != nil && ann.Rank <= t.current.Rank {
		t.mu.Unlock()
		return // rule 4: drop
	}

	// rule 3: a strictly higher-ranked leader (or the first leader seen).
	old := t.current
	if old != nil && !old.Attached() {
		t.addToIgnoreLocked(old.DeviceID)
	}
	next := &CurrentLeader{
		BusName:    ann.BusName,
		DeviceID:   ann.DeviceID,
		DeviceName: ann.DeviceName,
		Rank:       ann.Rank,
		Port:       ann.Port,
	}
	t.current = next
	t.mu.Unlock()

	if old != nil && old.Attached() {
		t.teardownOldLeader(*old)
		// t.current already points at next, so onSessionLost ignores the
		// old session; report the disconnect here instead.
		t.events.DisconnectedFromControllerService()
	}

	go t.joinAsync(*next)
}

// addToIgnoreLocked records deviceID so a late join-completion for a leader
// that was superseded before it ever attached is silently discarded. Caller
// must hold t.mu.
func (t *Tracker) addToIgnoreLocked(deviceID string) {
	now := time.Now()
	for id, e := range t.ignoreSet {
		if now.Sub(e.insertedAt) > t.ignoreTTL {
			delete(t.ignoreSet, id)
		}
	}
	if len(t.ignoreSet) >= t.ignoreCap {
		t.evictOldestLocked()
	}
	t.ignoreSet[deviceID] = ignoreEntry{insertedAt: now}
}

func (t *Tracker) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, e := range t.ignoreSet {
		if oldestID == "" || e.insertedAt.Before(oldestAt) {
			oldestID, oldestAt = id, e.insertedAt
		}
	}
	if oldestID != "" {
		delete(t.ignoreSet, oldestID)
	}
}

func (t *Tracker) teardownOldLeader(old CurrentLeader) {
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()
	if err := t.bus.LeaveSession(ctx, old.SessionID); err != nil {
		slog.Warn("leader: failed to tear down superseded session",
			"device_id", old.DeviceID, "error", err)
	}
}

// joinAsync performs the session join off the announcement-handling
// goroutine, matching the "any suspension point must not hold a lock" rule.
func (t *Tracker) joinAsync(target CurrentLeader) {
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	sessionID, err := t.bus.JoinSession(ctx, target.BusName)
	t.onJoinComplete(target.DeviceID, sessionID, err)
}

// onJoinComplete implements the join-completion rules of spec.md §4.1.
func (t *Tracker) onJoinComplete(deviceID, sessionID string, joinErr error) {
	t.mu.Lock()
	if _, ignored := t.ignoreSet[deviceID]; ignored {
		delete(t.ignoreSet, deviceID)
		t.mu.Unlock()
		return
	}

	if t.current == nil || t.current.DeviceID != deviceID {
		// Superseded by a newer leader before this join completed, but
		// wasn't in ignore_set (e.g. it never lost its session). Tear
		// down the now-orphaned session, if any, and stop.
		t.mu.Unlock()
		if joinErr == nil {
			ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
			_ = t.bus.LeaveSession(ctx, sessionID)
			cancel()
		}
		return
	}

	if joinErr != nil {
		t.mu.Unlock()
		t.events.ConnectToControllerServiceFailed(deviceID, joinErr)
		return
	}

	t.current.SessionID = sessionID
	t.mu.Unlock()

	if t.introspector != nil {
		ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
		err := t.introspector(ctx, sessionID)
		cancel()
		if err != nil {
			t.events.ConnectToControllerServiceFailed(deviceID, err)
			return
		}
	}

	t.events.ConnectedToControllerService(deviceID)
}

// onSessionLost implements spec.md §4.1's session-loss rule.
func (t *Tracker) onSessionLost(sessionID string) {
	t.mu.Lock()
	if t.current == nil || t.current.SessionID != sessionID {
		t.mu.Unlock()
		return
	}
	t.current = nil
	t.mu.Unlock()

	t.events.DisconnectedFromControllerService()
}

// RegistrationFailed surfaces an unrecoverable transport failure (announce
// registration failed) per spec.md §4.1.
func (t *Tracker) RegistrationFailed(err error) {
	t.events.IrrecoverableError(err)
}
