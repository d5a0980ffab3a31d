package controllerservice

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
	"github.com/codeready-toolchain/lsf-controller/pkg/wire"
)

// registerLampHandlers installs the Lamp entity's read/name-only surface:
// lamps are discovered by the Lamp Session Pool, never created, updated, or
// deleted through the Controller Service API.
func (s *Service) registerLampHandlers(busName string) {
	bus := s.bus

	bus.RegisterMethodHandler(busName, "GetAllLampIDs", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("GetAllLampIDs")
		return reply(okPayload(map[string]any{"ids": s.catalog.Lamps.GetAllIDs()}))
	})

	bus.RegisterMethodHandler(busName, "GetLampName", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("GetLampName")
		args, ok := call.Args.(wire.IDLangArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		name, found := s.catalog.Lamps.GetName(args.ID, args.Language)
		if !found {
			return reply(errPayload(lsftypes.ErrNotFound, map[string]any{"id": args.ID, "language": args.Language}))
		}
		return reply(okPayload(map[string]any{"id": args.ID, "language": args.Language, "name": name}))
	})

	bus.RegisterMethodHandler(busName, "SetLampName", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("SetLampName")
		args, ok := call.Args.(wire.IDNameLangArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		if err := s.catalog.Lamps.SetName(args.ID, args.Language, args.Name); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID, "language": args.Language}))
		}
		s.broadcaster.Emit(ctx, signal.Name(signal.EntityLamps, signal.NameChanged), map[string]any{"ids": []string{args.ID}})
		return reply(okPayload(map[string]any{"id": args.ID, "language": args.Language}))
	})

	bus.RegisterMethodHandler(busName, "GetLamp", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("GetLamp")
		args, ok := call.Args.(wire.IDArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		lamp, found := s.catalog.Lamps.Get(args.ID)
		if !found {
			return reply(errPayload(lsftypes.ErrNotFound, map[string]any{"id": args.ID}))
		}
		return reply(okPayload(map[string]any{"id": args.ID, "lamp": lamp}))
	})

	bus.RegisterMethodHandler(busName, "GetLampState", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("GetLampState")
		args, ok := call.Args.(wire.IDArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		lamp, found := s.catalog.Lamps.Get(args.ID)
		if !found {
			return reply(errPayload(lsftypes.ErrNotFound, map[string]any{"id": args.ID}))
		}
		return reply(okPayload(map[string]any{"id": args.ID, "state": lamp.State}))
	})

	bus.RegisterMethodHandler(busName, "GetLampFaults", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("GetLampFaults")
		args, ok := call.Args.(wire.IDArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		lamp, found := s.catalog.Lamps.Get(args.ID)
		if !found {
			return reply(errPayload(lsftypes.ErrNotFound, map[string]any{"id": args.ID}))
		}
		faults := make([]uint32, 0, len(lamp.Faults))
		for code := range lamp.Faults {
			faults = append(faults, code)
		}
		return reply(okPayload(map[string]any{"id": args.ID, "fault_codes": faults}))
	})
}
