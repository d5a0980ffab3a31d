package controllerservice

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
	"github.com/codeready-toolchain/lsf-controller/pkg/wire"
)

// entityOps binds the generic CRUD method family (spec.md §6, "for each
// entity type") to one store's concrete operations. Reference validation and
// delete-refusal are supplied by the depgraph.Resolver-backed callers in
// group.go/preset.go/scene.go/masterscene.go and may be nil where an entity
// type has none (Preset has no delete-refusal rule of its own beyond being
// referenced, which IS expressed here as canDelete).
type entityOps[T any] struct {
	prefix   string
	replyKey string
	entity   signal.EntityType

	getAllIDs func() []string
	get       func(id string) (T, bool)
	getName   func(id, lang string) (string, bool)
	setName   func(id, lang, name string) error
	create    func(fields T, name, lang string) (string, error)
	update    func(id string, fields T) error
	delete    func(id string) (T, error)

	validateCreate func(fields T) error
	validateUpdate func(id string, fields T) error
	canDelete      func(id string) error
}

// registerEntityCRUD installs the seven generic handlers for one entity type
// on busName. A plain function rather than a *Service method: Go methods
// cannot carry their own type parameters.
func registerEntityCRUD[T any](s *Service, busName string, ops entityOps[T]) {
	bus := s.bus

	bus.RegisterMethodHandler(busName, "GetAll"+ops.prefix+"IDs", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("GetAll" + ops.prefix + "IDs")
		return reply(okPayload(map[string]any{"ids": ops.getAllIDs()}))
	})

	bus.RegisterMethodHandler(busName, "Get"+ops.prefix+"Name", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("Get" + ops.prefix + "Name")
		args, ok := call.Args.(wire.IDLangArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		name, found := ops.getName(args.ID, args.Language)
		if !found {
			return reply(errPayload(lsftypes.ErrNotFound, map[string]any{"id": args.ID, "language": args.Language}))
		}
		return reply(okPayload(map[string]any{"id": args.ID, "language": args.Language, "name": name}))
	})

	bus.RegisterMethodHandler(busName, "Set"+ops.prefix+"Name", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("Set" + ops.prefix + "Name")
		args, ok := call.Args.(wire.IDNameLangArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		if err := ops.setName(args.ID, args.Language, args.Name); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID, "language": args.Language}))
		}
		s.broadcaster.Emit(ctx, signal.Name(ops.entity, signal.NameChanged), map[string]any{"ids": []string{args.ID}})
		return reply(okPayload(map[string]any{"id": args.ID, "language": args.Language}))
	})

	bus.RegisterMethodHandler(busName, "Create"+ops.prefix, func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("Create" + ops.prefix)
		args, ok := call.Args.(wire.CreateArgs[T])
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		if ops.validateCreate != nil {
			if err := ops.validateCreate(args.Fields); err != nil {
				return reply(errPayload(err, nil))
			}
		}
		id, err := ops.create(args.Fields, args.Name, args.Language)
		if err != nil {
			return reply(errPayload(err, nil))
		}
		s.broadcaster.Emit(ctx, signal.Name(ops.entity, signal.Created), map[string]any{"ids": []string{id}})
		return reply(okPayload(map[string]any{"id": id, "tracking_id": id}))
	})

	if ops.get != nil {
		bus.RegisterMethodHandler(busName, "Get"+ops.prefix, func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
			defer logHandlerPanic("Get" + ops.prefix)
			args, ok := call.Args.(wire.IDArgs)
			if !ok {
				return reply(errPayload(lsftypes.ErrInvalid, nil))
			}
			entity, found := ops.get(args.ID)
			if !found {
				return reply(errPayload(lsftypes.ErrNotFound, map[string]any{"id": args.ID}))
			}
			return reply(okPayload(map[string]any{"id": args.ID, ops.replyKey: entity}))
		})
	}

	bus.RegisterMethodHandler(busName, "Update"+ops.prefix, func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("Update" + ops.prefix)
		args, ok := call.Args.(wire.UpdateArgs[T])
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		if ops.validateUpdate != nil {
			if err := ops.validateUpdate(args.ID, args.Fields); err != nil {
				return reply(errPayload(err, map[string]any{"id": args.ID}))
			}
		}
		if err := ops.update(args.ID, args.Fields); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		s.broadcaster.Emit(ctx, signal.Name(ops.entity, signal.Updated), map[string]any{"ids": []string{args.ID}})
		return reply(okPayload(map[string]any{"id": args.ID}))
	})

	bus.RegisterMethodHandler(busName, "Delete"+ops.prefix, func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("Delete" + ops.prefix)
		args, ok := call.Args.(wire.IDArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		if ops.canDelete != nil {
			if err := ops.canDelete(args.ID); err != nil {
				return reply(errPayload(err, map[string]any{"id": args.ID}))
			}
		}
		if _, err := ops.delete(args.ID); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		s.broadcaster.Emit(ctx, signal.Name(ops.entity, signal.Deleted), map[string]any{"ids": []string{args.ID}})
		return reply(okPayload(map[string]any{"id": args.ID}))
	})
}
