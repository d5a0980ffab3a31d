package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

// DefaultCallTimeout bounds every outstanding method call.
const DefaultCallTimeout = 30 * time.Second

type registration struct {
	shape   ReplyShape
	decode  CustomDecodeFunc
	handler ReplyHandler
}

// Dispatcher issues typed method calls over whatever session the leader
// tracker currently has attached, matches replies to the per-method
// callback, and surfaces transport failures and timeouts.
//
// Locking order (spec.md §5): Dispatcher never holds its mutex across a
// Bus call — Dispatch snapshots the session id and registration, then
// issues the call from a separate goroutine.
type Dispatcher struct {
	mu        sync.Mutex
	bus       transport.Bus
	sessionID string
	handlers  map[string]registration

	onError ErrorHandler
	timeout time.Duration
}

// New constructs a Dispatcher. onError receives every ControllerClientError;
// it must not block.
func New(bus transport.Bus, onError ErrorHandler) *Dispatcher {
	return &Dispatcher{
		bus:      bus,
		handlers: make(map[string]registration),
		onError:  onError,
		timeout:  DefaultCallTimeout,
	}
}

// SetTimeout overrides the per-call timeout (default DefaultCallTimeout).
func (d *Dispatcher) SetTimeout(timeout time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timeout = timeout
}

// RegisterHandler installs the typed callback for method, decoded per shape.
func (d *Dispatcher) RegisterHandler(method string, shape ReplyShape, handler ReplyHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[method] = registration{shape: shape, handler: handler}
}

// RegisterCustomHandler installs a free-form decoder for method.
func (d *Dispatcher) RegisterCustomHandler(method string, decode CustomDecodeFunc, handler ReplyHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[method] = registration{shape: ShapeCustom, decode: decode, handler: handler}
}

// Rebind updates the session the dispatcher issues calls against. Called by
// the Client Façade in response to ConnectedToControllerService (sessionID)
// and DisconnectedFromControllerService (""). Calls already in flight keep
// running against their captured session id and are not cancelled — per
// spec.md §4.2, they are allowed to complete if the transport still
// delivers them, and are silently abandoned (not reported as timeouts) if
// the session is gone by the time the reply would arrive.
func (d *Dispatcher) Rebind(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessionID = sessionID
}

// Dispatch issues method with args over the current session. The call
// itself runs asynchronously; Status only reports whether it was submitted.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, args any) Status {
	d.mu.Lock()
	sessionID := d.sessionID
	reg, ok := d.handlers[method]
	timeout := d.timeout
	d.mu.Unlock()

	if sessionID == "" {
		return StatusNotConnected
	}
	if !ok {
		slog.Error("dispatch: no reply handler registered for method", "method", method)
		return StatusFailure
	}

	go d.call(ctx, sessionID, method, args, reg, timeout)
	return StatusOK
}

func (d *Dispatcher) call(parent context.Context, sessionID, method string, args any, reg registration, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	reply, err := d.bus.CallMethod(ctx, sessionID, method, args)
	if err != nil {
		if errors.Is(err, transport.ErrSessionNotFound) {
			// Abandoned: the disconnect callback already told the
			// application the leader is gone. No spurious timeout.
			return
		}
		d.reportError(method, err)
		return
	}
	if reply.Err != nil {
		d.reportError(method, reply.Err)
		return
	}

	payload, _ := reply.Args.(map[string]any)
	decoded, err := decodeReply(reg.shape, reg.decode, payload)
	if err != nil {
		d.reportError(method, err)
		return
	}
	reg.handler(decoded)
}

func (d *Dispatcher) reportError(method string, err error) {
	slog.Warn("dispatch: method call failed", "method", method, "error", err)
	if d.onError != nil {
		d.onError(ControllerClientError{ErrorCodeList: []ErrorCode{ErrCodeMethodCallTimeout}})
	}
}
