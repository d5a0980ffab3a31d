package signal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

func TestBroadcaster_EmitsOnlyToJoinedSessions(t *testing.T) {
	bus := transport.NewMemoryBus()
	sessionID, err := bus.JoinSession(context.Background(), "svc")
	require.NoError(t, err)

	var received []transport.Signal
	unsub := bus.SubscribeSignals(sessionID, func(s transport.Signal) {
		received = append(received, s)
	})
	defer unsub()

	b := NewBroadcaster(bus)
	b.AddSession(sessionID)
	b.Emit(context.Background(), "ScenesCreated", map[string]any{"ids": []string{"s1"}})

	require.Len(t, received, 1)
	assert.Equal(t, "ScenesCreated", received[0].Name)
}

func TestBroadcaster_RemovedSessionStopsReceiving(t *testing.T) {
	bus := transport.NewMemoryBus()
	sessionID, err := bus.JoinSession(context.Background(), "svc")
	require.NoError(t, err)

	count := 0
	unsub := bus.SubscribeSignals(sessionID, func(transport.Signal) { count++ })
	defer unsub()

	b := NewBroadcaster(bus)
	b.AddSession(sessionID)
	b.RemoveSession(sessionID)
	b.Emit(context.Background(), "ScenesCreated", nil)

	assert.Equal(t, 0, count)
}

func TestBroadcaster_TapReceivesJSONEncodedSignal(t *testing.T) {
	bus := transport.NewMemoryBus()
	b := NewBroadcaster(bus)

	ch, _, unsub := b.Subscribe()
	defer unsub()

	b.Emit(context.Background(), "MasterSceneApplied", map[string]any{"master_id": "m1"})

	select {
	case raw := <-ch:
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "MasterSceneApplied", decoded["signal"])
	case <-time.After(time.Second):
		t.Fatal("tap did not receive signal")
	}
}

func TestBatch_CoalescesMultipleMutationsIntoOneSignal(t *testing.T) {
	bus := transport.NewMemoryBus()
	sessionID, err := bus.JoinSession(context.Background(), "svc")
	require.NoError(t, err)

	var received []transport.Signal
	unsub := bus.SubscribeSignals(sessionID, func(s transport.Signal) {
		received = append(received, s)
	})
	defer unsub()

	b := NewBroadcaster(bus)
	b.AddSession(sessionID)

	batch := NewBatch()
	batch.Record(EntityLampGroups, Created, "g1")
	batch.Record(EntityLampGroups, Created, "g2")
	batch.Record(EntityPresets, Deleted, "p1")
	batch.Flush(context.Background(), b)

	require.Len(t, received, 2)
	names := map[string]bool{}
	for _, s := range received {
		names[s.Name] = true
	}
	assert.True(t, names["LampGroupsCreated"])
	assert.True(t, names["PresetsDeleted"])
}
