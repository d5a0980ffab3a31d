package controllerservice

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/scene"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
	"github.com/codeready-toolchain/lsf-controller/pkg/wire"
)

func (s *Service) validateSceneFields(fields lsftypes.Scene) error {
	if err := scene.ValidateScene(fields); err != nil {
		return err
	}
	return s.resolver.ValidateSceneReferences(fields)
}

func (s *Service) registerSceneHandlers(busName string) {
	registerEntityCRUD(s, busName, entityOps[lsftypes.Scene]{
		prefix:   "Scene",
		replyKey: "scene",
		entity:   signal.EntityScenes,

		getAllIDs: s.catalog.Scenes.GetAllIDs,
		get:       s.catalog.Scenes.Get,
		getName:   s.catalog.Scenes.GetName,
		setName:   s.catalog.Scenes.SetName,
		create:    s.catalog.Scenes.Create,
		update:    s.catalog.Scenes.Update,
		delete:    s.catalog.Scenes.Delete,

		validateCreate: s.validateSceneFields,
		validateUpdate: func(id string, fields lsftypes.Scene) error { return s.validateSceneFields(fields) },
		canDelete:      s.resolver.CanDeleteScene,
	})

	s.bus.RegisterMethodHandler(busName, "ApplyScene", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("ApplyScene")
		args, ok := call.Args.(wire.ApplyArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		result, err := s.executor.ApplyScene(ctx, args.ID)
		if err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		if len(result.Skipped) > 0 {
			// Per spec.md §8: apply still succeeds overall and siblings
			// still run, but the reply surfaces ERR_DEPENDENCY for the
			// component(s) whose preset was deleted between validation
			// and apply.
			return reply(errPayload(lsftypes.ErrDependency, map[string]any{"id": args.ID, "skipped": result.Skipped}))
		}
		return reply(okPayload(map[string]any{"id": args.ID}))
	})
}
