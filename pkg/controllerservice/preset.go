package controllerservice

import (
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
)

func (s *Service) registerPresetHandlers(busName string) {
	registerEntityCRUD(s, busName, entityOps[lsftypes.Preset]{
		prefix:   "Preset",
		replyKey: "preset",
		entity:   signal.EntityPresets,

		getAllIDs: s.catalog.Presets.GetAllIDs,
		get:       s.catalog.Presets.Get,
		getName:   s.catalog.Presets.GetName,
		setName:   s.catalog.Presets.SetName,
		create:    s.catalog.Presets.Create,
		update:    s.catalog.Presets.Update,
		delete:    s.catalog.Presets.Delete,

		canDelete: s.resolver.CanDeletePreset,
	})
}
