package leader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

// recordingEvents captures every callback the tracker emits so tests can
// assert on the sequence without racing on channels.
type recordingEvents struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEvents) record(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recordingEvents) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recordingEvents) ConnectedToControllerService(deviceID string) {
	r.record("connected:" + deviceID)
}
func (r *recordingEvents) ConnectToControllerServiceFailed(deviceID string, _ error) {
	r.record("connect_failed:" + deviceID)
}
func (r *recordingEvents) DisconnectedFromControllerService() {
	r.record("disconnected")
}
func (r *recordingEvents) ControllerServiceNameChanged(deviceID, name string) {
	r.record("name_changed:" + deviceID + ":" + name)
}
func (r *recordingEvents) IrrecoverableError(_ error) {
	r.record("irrecoverable")
}

func waitForEvent(t *testing.T, ev *recordingEvents, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, e := range ev.snapshot() {
			if e == want {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for event %q, got %v", want, ev.snapshot())
}

func TestTracker_FailoverToHigherRank(t *testing.T) {
	bus := transport.NewMemoryBus()
	ev := &recordingEvents{}
	tr := New(bus, ev, nil)
	tr.Start()
	defer tr.Stop()

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", Rank: 1, IsLeader: true,
	}))
	waitForEvent(t, ev, "connected:a")

	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.DeviceID)

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "b", DeviceID: "b", Rank: 2, IsLeader: true,
	}))
	waitForEvent(t, ev, "disconnected")
	waitForEvent(t, ev, "connected:b")

	cur, ok = tr.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.DeviceID)
}

func TestTracker_LowerRankDropped(t *testing.T) {
	bus := transport.NewMemoryBus()
	ev := &recordingEvents{}
	tr := New(bus, ev, nil)
	tr.Start()
	defer tr.Stop()

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "b", DeviceID: "b", Rank: 5, IsLeader: true,
	}))
	waitForEvent(t, ev, "connected:b")

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", Rank: 1, IsLeader: true,
	}))
	time.Sleep(20 * time.Millisecond)

	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.DeviceID, "lower-rank announcement must be dropped")
}

func TestTracker_NonLeaderAnnouncementIgnored(t *testing.T) {
	bus := transport.NewMemoryBus()
	ev := &recordingEvents{}
	tr := New(bus, ev, nil)
	tr.Start()
	defer tr.Stop()

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", Rank: 1, IsLeader: false,
	}))
	time.Sleep(20 * time.Millisecond)

	_, ok := tr.Current()
	assert.False(t, ok)
}

func TestTracker_NameChangeOnlyEmittedWhenAttached(t *testing.T) {
	bus := transport.NewMemoryBus()
	ev := &recordingEvents{}
	tr := New(bus, ev, nil)
	tr.Start()
	defer tr.Stop()

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", DeviceName: "alpha", Rank: 1, IsLeader: true,
	}))
	waitForEvent(t, ev, "connected:a")

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", DeviceName: "alpha-renamed", Rank: 1, IsLeader: true,
	}))
	waitForEvent(t, ev, "name_changed:a:alpha-renamed")
}

func TestTracker_SessionLossTriggersRejoinOnReannounce(t *testing.T) {
	bus := transport.NewMemoryBus()
	ev := &recordingEvents{}
	tr := New(bus, ev, nil)
	tr.Start()
	defer tr.Stop()

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", Rank: 1, IsLeader: true,
	}))
	waitForEvent(t, ev, "connected:a")

	cur, _ := tr.Current()
	require.NoError(t, bus.LeaveSession(context.Background(), cur.SessionID))
	waitForEvent(t, ev, "disconnected")

	_, ok := tr.Current()
	assert.False(t, ok)

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", Rank: 1, IsLeader: true,
	}))
	waitForEvent(t, ev, "connected:a")
}

func TestTracker_IntrospectionFailureSurfacesAsConnectFailed(t *testing.T) {
	bus := transport.NewMemoryBus()
	ev := &recordingEvents{}
	introspectErr := errors.New("boom")
	tr := New(bus, ev, func(context.Context, string) error { return introspectErr })
	tr.Start()
	defer tr.Stop()

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", Rank: 1, IsLeader: true,
	}))
	waitForEvent(t, ev, "connect_failed:a")
}

// TestTracker_IntrospectionAgainstRealMemoryBus drives method introspection
// through an actual transport.MethodLister implementation (MemoryBus) rather
// than a test fake, confirming the join path really does fetch the
// advertised method set before emitting ConnectedToControllerService.
func TestTracker_IntrospectionAgainstRealMemoryBus(t *testing.T) {
	bus := transport.NewMemoryBus()
	bus.RegisterMethodHandler("a", "ApplyScene", func(context.Context, transport.MethodCall) transport.MethodReply {
		return transport.MethodReply{}
	})
	bus.RegisterMethodHandler("a", "CreateLampGroup", func(context.Context, transport.MethodCall) transport.MethodReply {
		return transport.MethodReply{}
	})

	var introspected []string
	introspector := func(ctx context.Context, sessionID string) error {
		lister, ok := any(bus).(transport.MethodLister)
		require.True(t, ok)
		methods, ok := lister.RegisteredMethods(sessionID)
		if !ok {
			return errors.New("session not found")
		}
		introspected = methods
		return nil
	}

	ev := &recordingEvents{}
	tr := New(bus, ev, introspector)
	tr.Start()
	defer tr.Stop()

	require.NoError(t, bus.Announce(context.Background(), transport.Announcement{
		BusName: "a", DeviceID: "a", Rank: 1, IsLeader: true,
	}))
	waitForEvent(t, ev, "connected:a")

	assert.ElementsMatch(t, []string{"ApplyScene", "CreateLampGroup"}, introspected)
}
