package transport

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrMethodNotFound is returned by CallMethod when the session's bus
// participant has no handler registered for the requested method.
var ErrMethodNotFound = errors.New("transport: method not found")

// ErrSessionNotFound is returned by CallMethod/EmitSignal/LeaveSession for an
// unknown or already-torn-down session id.
var ErrSessionNotFound = errors.New("transport: session not found")

// MemoryBus is an in-process Bus implementation used by tests and by the
// bundled demo. It stands in for the real discovery/RPC substrate, which is
// deliberately out of scope for this repository.
type MemoryBus struct {
	mu sync.RWMutex

	announceHandlers map[string]AnnouncementHandler // subscription id -> handler
	lossHandlers     map[string]func(sessionID string)

	// busName -> method -> handler
	methodHandlers map[string]map[string]MethodHandler

	// sessionID -> busName (the participant the session was joined against)
	sessions map[string]string

	// sessionID -> subscription id -> handler
	signalHandlers map[string]map[string]SignalHandler

	subSeq uint64
}

// NewMemoryBus constructs an empty MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		announceHandlers: make(map[string]AnnouncementHandler),
		lossHandlers:     make(map[string]func(string)),
		methodHandlers:   make(map[string]map[string]MethodHandler),
		sessions:         make(map[string]string),
		signalHandlers:   make(map[string]map[string]SignalHandler),
	}
}

func (b *MemoryBus) nextSubID() string {
	b.subSeq++
	return uuid.New().String()
}

// Announce broadcasts ann to every subscriber. Snapshot-then-call keeps the
// mutex from being held across handler invocations, matching the lock
// discipline used throughout this repository's mutex-protected components.
func (b *MemoryBus) Announce(_ context.Context, ann Announcement) error {
	b.mu.RLock()
	handlers := make([]AnnouncementHandler, 0, len(b.announceHandlers))
	for _, h := range b.announceHandlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ann)
	}
	return nil
}

func (b *MemoryBus) SubscribeAnnouncements(handler AnnouncementHandler) func() {
	b.mu.Lock()
	id := b.nextSubID()
	b.announceHandlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.announceHandlers, id)
		b.mu.Unlock()
	}
}

func (b *MemoryBus) JoinSession(_ context.Context, busName string) (string, error) {
	sessionID := uuid.New().String()
	b.mu.Lock()
	b.sessions[sessionID] = busName
	b.signalHandlers[sessionID] = make(map[string]SignalHandler)
	b.mu.Unlock()
	return sessionID, nil
}

func (b *MemoryBus) LeaveSession(_ context.Context, sessionID string) error {
	b.mu.Lock()
	if _, ok := b.sessions[sessionID]; !ok {
		b.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(b.sessions, sessionID)
	delete(b.signalHandlers, sessionID)
	lossHandlers := make([]func(string), 0, len(b.lossHandlers))
	for _, h := range b.lossHandlers {
		lossHandlers = append(lossHandlers, h)
	}
	b.mu.Unlock()

	for _, h := range lossHandlers {
		h(sessionID)
	}
	return nil
}

func (b *MemoryBus) SubscribeSessionLoss(handler func(sessionID string)) func() {
	b.mu.Lock()
	id := b.nextSubID()
	b.lossHandlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.lossHandlers, id)
		b.mu.Unlock()
	}
}

func (b *MemoryBus) RegisterMethodHandler(busName, method string, handler MethodHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.methodHandlers[busName] == nil {
		b.methodHandlers[busName] = make(map[string]MethodHandler)
	}
	b.methodHandlers[busName][method] = handler
}

func (b *MemoryBus) CallMethod(ctx context.Context, sessionID, method string, args any) (MethodReply, error) {
	b.mu.RLock()
	busName, ok := b.sessions[sessionID]
	if !ok {
		b.mu.RUnlock()
		return MethodReply{}, ErrSessionNotFound
	}
	handler, ok := b.methodHandlers[busName][method]
	b.mu.RUnlock()
	if !ok {
		return MethodReply{}, ErrMethodNotFound
	}

	reply := handler(ctx, MethodCall{SessionID: sessionID, Method: method, Args: args})
	return reply, nil
}

func (b *MemoryBus) EmitSignal(_ context.Context, sessionID, name string, args any) error {
	b.mu.RLock()
	if _, ok := b.sessions[sessionID]; !ok {
		b.mu.RUnlock()
		return ErrSessionNotFound
	}
	handlers := make([]SignalHandler, 0, len(b.signalHandlers[sessionID]))
	for _, h := range b.signalHandlers[sessionID] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	sig := Signal{SessionID: sessionID, Name: name, Args: args}
	for _, h := range handlers {
		h(sig)
	}
	return nil
}

// RegisteredMethods implements MethodLister: it returns the method names
// registered against the bus participant sessionID is joined to.
func (b *MemoryBus) RegisteredMethods(sessionID string) ([]string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	busName, ok := b.sessions[sessionID]
	if !ok {
		return nil, false
	}
	handlers := b.methodHandlers[busName]
	methods := make([]string, 0, len(handlers))
	for name := range handlers {
		methods = append(methods, name)
	}
	return methods, true
}

func (b *MemoryBus) SubscribeSignals(sessionID string, handler SignalHandler) func() {
	b.mu.Lock()
	id := b.nextSubID()
	if b.signalHandlers[sessionID] == nil {
		b.signalHandlers[sessionID] = make(map[string]SignalHandler)
	}
	b.signalHandlers[sessionID][id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.signalHandlers[sessionID], id)
		b.mu.Unlock()
	}
}
