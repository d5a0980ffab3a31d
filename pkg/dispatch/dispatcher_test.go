package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

type result struct {
	mu  sync.Mutex
	val any
}

func (r *result) set(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.val = v
}

func (r *result) get() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.val
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_NotConnectedWithoutSession(t *testing.T) {
	bus := transport.NewMemoryBus()
	d := New(bus, nil)
	d.RegisterHandler("GetAllLampIDs", ShapeIDList, func(any) {})

	status := d.Dispatch(context.Background(), "GetAllLampIDs", nil)
	assert.Equal(t, StatusNotConnected, status)
}

func TestDispatcher_DecodesIDListReply(t *testing.T) {
	bus := transport.NewMemoryBus()
	bus.RegisterMethodHandler("svc", "GetAllLampIDs", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		return transport.MethodReply{Args: map[string]any{
			"response_code": lsftypes.LSFOk,
			"ids":           []string{"l1", "l2"},
		}}
	})
	sessionID, err := bus.JoinSession(context.Background(), "svc")
	require.NoError(t, err)

	d := New(bus, nil)
	d.Rebind(sessionID)

	var got result
	d.RegisterHandler("GetAllLampIDs", ShapeIDList, func(r any) { got.set(r) })

	status := d.Dispatch(context.Background(), "GetAllLampIDs", nil)
	require.Equal(t, StatusOK, status)

	waitFor(t, func() bool { return got.get() != nil })
	reply := got.get().(IDListReply)
	assert.Equal(t, lsftypes.LSFOk, reply.Code)
	assert.ElementsMatch(t, []string{"l1", "l2"}, reply.IDs)
}

func TestDispatcher_MissingHandlerIsFailure(t *testing.T) {
	bus := transport.NewMemoryBus()
	sessionID, err := bus.JoinSession(context.Background(), "svc")
	require.NoError(t, err)

	d := New(bus, nil)
	d.Rebind(sessionID)

	status := d.Dispatch(context.Background(), "Unregistered", nil)
	assert.Equal(t, StatusFailure, status)
}

func TestDispatcher_TransportFailureReportsError(t *testing.T) {
	bus := transport.NewMemoryBus()
	// No handler registered on the bus for this method: CallMethod fails.
	sessionID, err := bus.JoinSession(context.Background(), "svc")
	require.NoError(t, err)

	var mu sync.Mutex
	var errs []ControllerClientError
	d := New(bus, func(e ControllerClientError) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, e)
	})
	d.Rebind(sessionID)
	d.RegisterHandler("Missing", ShapeIDList, func(any) {})

	status := d.Dispatch(context.Background(), "Missing", nil)
	require.Equal(t, StatusOK, status)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) == 1
	})
}

func TestDispatcher_AbandonedAfterSessionLoss(t *testing.T) {
	bus := transport.NewMemoryBus()
	bus.RegisterMethodHandler("svc", "Slow", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		<-ctx.Done()
		return transport.MethodReply{Args: map[string]any{}}
	})
	sessionID, err := bus.JoinSession(context.Background(), "svc")
	require.NoError(t, err)

	var mu sync.Mutex
	var errCount int
	d := New(bus, func(ControllerClientError) {
		mu.Lock()
		defer mu.Unlock()
		errCount++
	})
	d.SetTimeout(50 * time.Millisecond)
	d.Rebind(sessionID)
	d.RegisterHandler("Slow", ShapeIDList, func(any) {})

	status := d.Dispatch(context.Background(), "Slow", nil)
	require.Equal(t, StatusOK, status)

	require.NoError(t, bus.LeaveSession(context.Background(), sessionID))
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, errCount, "no spurious timeout once the session is gone")
}
