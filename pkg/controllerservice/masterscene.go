package controllerservice

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/scene"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
	"github.com/codeready-toolchain/lsf-controller/pkg/wire"
)

func (s *Service) registerMasterSceneHandlers(busName string) {
	registerEntityCRUD(s, busName, entityOps[lsftypes.MasterScene]{
		prefix:   "MasterScene",
		replyKey: "master_scene",
		entity:   signal.EntityMasterScenes,

		getAllIDs: s.catalog.MasterScenes.GetAllIDs,
		get:       s.catalog.MasterScenes.Get,
		getName:   s.catalog.MasterScenes.GetName,
		setName:   s.catalog.MasterScenes.SetName,
		create:    s.catalog.MasterScenes.Create,
		update:    s.catalog.MasterScenes.Update,
		delete:    s.catalog.MasterScenes.Delete,

		validateCreate: s.resolver.ValidateMasterSceneReferences,
		validateUpdate: func(id string, fields lsftypes.MasterScene) error {
			return s.resolver.ValidateMasterSceneReferences(fields)
		},
	})

	s.bus.RegisterMethodHandler(busName, "ApplyMasterScene", func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("ApplyMasterScene")
		args, ok := call.Args.(wire.ApplyArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		results, err := s.executor.ApplyMasterScene(ctx, args.ID)
		if err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		skipped := make(map[string][]scene.SkippedComponent)
		for _, r := range results {
			if len(r.Skipped) > 0 {
				skipped[r.SceneID] = r.Skipped
			}
		}
		if len(skipped) > 0 {
			// Per spec.md §7: failures during a MasterScene application are
			// reported per-Scene; the overall apply still succeeds and
			// every contained scene still runs.
			return reply(errPayload(lsftypes.ErrDependency, map[string]any{"id": args.ID, "skipped": skipped}))
		}
		return reply(okPayload(map[string]any{"id": args.ID}))
	})
}
