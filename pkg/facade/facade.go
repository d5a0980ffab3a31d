package facade

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/dispatch"
	"github.com/codeready-toolchain/lsf-controller/pkg/leader"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

// syncTimeout bounds the resync SyncAll performs right after a fresh join,
// mirroring the join/introspect timeout pkg/leader uses.
const syncTimeout = 10 * time.Second

// Events receives the connection-lifecycle callbacks described in
// spec.md §7.3 (liveness errors). An embedding application implements
// whichever of these it cares about; all fields are optional.
type Events struct {
	Connected          func(deviceID string)
	ConnectFailed      func(deviceID string, err error)
	Disconnected       func()
	NameChanged        func(deviceID, name string)
	IrrecoverableError func(err error)
}

// Facade is the Client Façade: the five per-domain managers, wired to a
// shared Async Call Dispatcher, plus the connection-lifecycle glue that
// rebinds the dispatcher's session and subscribes to signals whenever the
// Leader Tracker reports a new attached leader.
//
// Grounded on the teacher's pkg/services layer (one constructor-built
// struct per domain) composed into a single facade the way the teacher's
// HTTP handlers compose its services.
type Facade struct {
	dispatcher *dispatch.Dispatcher
	bus        transport.Bus
	tracker    *leader.Tracker

	Lamps        *LampManager
	LampGroups   *LampGroupManager
	Presets      *PresetManager
	Scenes       *SceneManager
	MasterScenes *MasterSceneManager

	Callbacks Events

	mu           sync.Mutex
	unsubSignals func()
	signalRoutes map[string]func(payload map[string]any)
}

// New builds a Facade over d, bound to bus for signal subscription. Call
// Bind once a Leader Tracker exists (the tracker's constructor takes this
// Facade as its leader.Events implementation, so the two must be wired in
// two steps) and tracker.Start() to begin processing announcements.
func New(d *dispatch.Dispatcher, bus transport.Bus) *Facade {
	f := &Facade{
		dispatcher:   d,
		bus:          bus,
		Lamps:        NewLampManager(d),
		LampGroups:   NewLampGroupManager(d),
		Presets:      NewPresetManager(d),
		Scenes:       NewSceneManager(d),
		MasterScenes: NewMasterSceneManager(d),
	}
	f.signalRoutes = f.buildSignalRoutes()
	return f
}

// Bind attaches the Leader Tracker this Facade reads session state from.
// Must be called before the tracker reports ConnectedToControllerService.
func (f *Facade) Bind(tracker *leader.Tracker) {
	f.tracker = tracker
}

func (f *Facade) buildSignalRoutes() map[string]func(payload map[string]any) {
	routes := make(map[string]func(payload map[string]any))
	for name, handler := range f.Lamps.signalHandlers() {
		routes[name] = handler
	}
	addIDListRoute := func(name string, handler func(ids []string)) {
		routes[name] = func(p map[string]any) { handler(stringSlice(p["ids"])) }
	}
	for name, handler := range f.LampGroups.entityCRUD.signalHandlers() {
		addIDListRoute(name, handler)
	}
	for name, handler := range f.Presets.entityCRUD.signalHandlers() {
		addIDListRoute(name, handler)
	}
	for name, handler := range f.Scenes.entityCRUD.signalHandlers() {
		addIDListRoute(name, handler)
	}
	for name, handler := range f.MasterScenes.entityCRUD.signalHandlers() {
		addIDListRoute(name, handler)
	}
	sceneName, sceneHandler := f.Scenes.signalHandler()
	routes[sceneName] = sceneHandler
	masterName, masterHandler := f.MasterScenes.signalHandler()
	routes[masterName] = masterHandler
	return routes
}

func (f *Facade) routeSignal(sig transport.Signal) {
	handler, ok := f.signalRoutes[sig.Name]
	if !ok {
		return
	}
	payload, _ := sig.Args.(map[string]any)
	handler(payload)
}

// ConnectedToControllerService implements leader.Events: it rebinds the
// dispatcher to the freshly joined session, subscribes to that session's
// signals, and issues SyncAll in the background to re-request every entity
// store's ID list, per SPEC_FULL.md §9.
func (f *Facade) ConnectedToControllerService(deviceID string) {
	current, ok := f.tracker.Current()
	if !ok || !current.Attached() {
		return
	}

	f.dispatcher.Rebind(current.SessionID)

	f.mu.Lock()
	if f.unsubSignals != nil {
		f.unsubSignals()
	}
	f.unsubSignals = f.bus.SubscribeSignals(current.SessionID, f.routeSignal)
	f.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		f.SyncAll(ctx)
	}()

	if f.Callbacks.Connected != nil {
		f.Callbacks.Connected(deviceID)
	}
}

// ConnectToControllerServiceFailed implements leader.Events.
func (f *Facade) ConnectToControllerServiceFailed(deviceID string, err error) {
	if f.Callbacks.ConnectFailed != nil {
		f.Callbacks.ConnectFailed(deviceID, err)
	}
}

// DisconnectedFromControllerService implements leader.Events: it unbinds
// the dispatcher session so future calls report StatusNotConnected instead
// of racing a torn-down session. Calls already in flight keep their captured
// session id (see Dispatcher.Rebind).
func (f *Facade) DisconnectedFromControllerService() {
	f.dispatcher.Rebind("")

	f.mu.Lock()
	if f.unsubSignals != nil {
		f.unsubSignals()
		f.unsubSignals = nil
	}
	f.mu.Unlock()

	if f.Callbacks.Disconnected != nil {
		f.Callbacks.Disconnected()
	}
}

// ControllerServiceNameChanged implements leader.Events.
func (f *Facade) ControllerServiceNameChanged(deviceID, name string) {
	if f.Callbacks.NameChanged != nil {
		f.Callbacks.NameChanged(deviceID, name)
	}
}

// IrrecoverableError implements leader.Events.
func (f *Facade) IrrecoverableError(err error) {
	if f.Callbacks.IrrecoverableError != nil {
		f.Callbacks.IrrecoverableError(err)
	}
}

// SyncAll re-requests the ID list for every manager: one GetAllIDs dispatch
// per entity type (SPEC_FULL.md §9), letting each store's own signal
// handling backfill from there. Five round trips, not one, and it does not
// hydrate per-entity field data — callers needing that still call the
// entity's own Get.
func (f *Facade) SyncAll(ctx context.Context) {
	for _, status := range []dispatch.Status{
		f.Lamps.GetAllLampIDs(ctx),
		f.LampGroups.GetAllIDs(ctx),
		f.Presets.GetAllIDs(ctx),
		f.Scenes.GetAllIDs(ctx),
		f.MasterScenes.GetAllIDs(ctx),
	} {
		if status != dispatch.StatusOK {
			slog.Warn("facade: SyncAll dispatch did not complete", "status", status.String())
		}
	}
}

func stringSlice(v any) []string {
	s, _ := v.([]string)
	return s
}
