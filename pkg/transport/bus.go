// Package transport abstracts the peer-to-peer service-discovery bus that
// the rest of the system runs on: announce, session join, method call, and
// signal emission. Everything above this package programs against the Bus
// interface; the real substrate (the service-discovery/RPC layer itself) is
// deliberately out of scope per the specification and is never implemented
// here — only a MemoryBus test/demo double is, mirroring the teacher's
// injectable transport in pkg/mcp/testing.go.
package transport

import "context"

// Announcement is the periodic broadcast a Controller Service emits
// advertising itself and its leader-election metadata.
type Announcement struct {
	BusName    string
	DeviceID   string
	DeviceName string
	Rank       uint64
	Port       uint16
	IsLeader   bool
}

// AnnouncementHandler receives every announcement observed on the bus.
type AnnouncementHandler func(Announcement)

// MethodCall carries a typed method invocation across the bus.
type MethodCall struct {
	SessionID string
	Method    string
	Args      any
}

// MethodReply is what a method handler returns; Args holds the reply-shape
// specific payload (see pkg/dispatch for the typed decoders).
type MethodReply struct {
	Args any
	Err  error
}

// MethodHandler implements one server-side RPC method.
type MethodHandler func(ctx context.Context, call MethodCall) MethodReply

// Signal is a one-way, fire-and-forget notification delivered in-order per
// emitter to every subscriber of a session.
type Signal struct {
	SessionID string
	Name      string
	Args      any
}

// SignalHandler receives signals delivered to a joined session.
type SignalHandler func(Signal)

// Bus is the abstract announce/session/method-call/signal substrate every
// other component in this repository is programmed against. Suspension
// points (JoinSession, CallMethod, EmitSignal) must never be called while
// holding a catalog or leader mutex.
type Bus interface {
	// Announce broadcasts ann to every subscriber of Announcements.
	Announce(ctx context.Context, ann Announcement) error

	// SubscribeAnnouncements registers handler for every future Announce
	// call on this bus. The returned func removes the subscription.
	SubscribeAnnouncements(handler AnnouncementHandler) (unsubscribe func())

	// JoinSession establishes a session against the named bus participant
	// and returns an opaque session id. May fail; callers must treat
	// failure as non-fatal per the Leader Tracker's join semantics.
	JoinSession(ctx context.Context, busName string) (sessionID string, err error)

	// LeaveSession tears down a previously joined session. Subscribers of
	// that session's signals are notified via SubscribeSessionLoss.
	LeaveSession(ctx context.Context, sessionID string) error

	// SubscribeSessionLoss registers handler to be called (with the lost
	// session id) whenever a session this process joined is torn down,
	// whether by LeaveSession or by a remote failure.
	SubscribeSessionLoss(handler func(sessionID string)) (unsubscribe func())

	// RegisterMethodHandler installs the server-side implementation of
	// method on busName. CallMethod against a bus with no matching handler
	// returns ErrMethodNotFound.
	RegisterMethodHandler(busName, method string, handler MethodHandler)

	// CallMethod dispatches a method call over sessionID and blocks for
	// the reply or ctx's deadline, whichever comes first.
	CallMethod(ctx context.Context, sessionID, method string, args any) (MethodReply, error)

	// EmitSignal broadcasts a signal to every subscriber of sessionID.
	EmitSignal(ctx context.Context, sessionID, name string, args any) error

	// SubscribeSignals registers handler for every signal emitted on
	// sessionID. The returned func removes the subscription.
	SubscribeSignals(sessionID string, handler SignalHandler) (unsubscribe func())
}

// MethodLister is an optional capability a Bus implementation may satisfy to
// support method introspection on join (SPEC_FULL.md §9). It reports the
// method names registered against the bus participant sessionID is joined
// to. Not part of the Bus interface itself since the real discovery/RPC
// substrate this package stands in for may have no equivalent call; callers
// type-assert for it and degrade to no introspection when absent.
type MethodLister interface {
	RegisteredMethods(sessionID string) (methods []string, ok bool)
}
