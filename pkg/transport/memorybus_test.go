package transport_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

func TestMemoryBus_RegisteredMethodsReflectsRegistrationsOnTheJoinedBus(t *testing.T) {
	bus := transport.NewMemoryBus()
	bus.RegisterMethodHandler("svc-a", "GetAllLampIDs", func(context.Context, transport.MethodCall) transport.MethodReply {
		return transport.MethodReply{}
	})
	bus.RegisterMethodHandler("svc-b", "ApplyScene", func(context.Context, transport.MethodCall) transport.MethodReply {
		return transport.MethodReply{}
	})

	sessionID, err := bus.JoinSession(context.Background(), "svc-a")
	require.NoError(t, err)

	var lister transport.MethodLister = bus
	methods, ok := lister.RegisteredMethods(sessionID)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"GetAllLampIDs"}, methods)
}

func TestMemoryBus_RegisteredMethodsUnknownSession(t *testing.T) {
	bus := transport.NewMemoryBus()

	var lister transport.MethodLister = bus
	_, ok := lister.RegisteredMethods("does-not-exist")
	assert.False(t, ok)
}
