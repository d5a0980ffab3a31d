package controllerservice

import (
	"fmt"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
)

// validateGroupRefs checks that every lamp and sub-group fields names
// currently exists. Used on create, where the group's own id doesn't exist
// yet so no cycle can form against it; cycle detection only matters once an
// id can be the target of another group's sub_groups.
func (s *Service) validateGroupRefs(fields lsftypes.LampGroup) error {
	for lampID := range fields.Lamps {
		if _, ok := s.catalog.Lamps.Get(lampID); !ok {
			return lsftypes.NewValidationError("lamps", fmt.Sprintf("lamp %s does not exist", lampID))
		}
	}
	for subID := range fields.SubGroups {
		if _, ok := s.catalog.Groups.Get(subID); !ok {
			return lsftypes.NewValidationError("sub_groups", fmt.Sprintf("group %s does not exist", subID))
		}
	}
	return nil
}

func (s *Service) validateGroupUpdate(id string, fields lsftypes.LampGroup) error {
	if err := s.validateGroupRefs(fields); err != nil {
		return err
	}
	return s.resolver.ValidateGroupSubGroups(id, fields.SubGroups)
}

func (s *Service) registerGroupHandlers(busName string) {
	registerEntityCRUD(s, busName, entityOps[lsftypes.LampGroup]{
		prefix:   "LampGroup",
		replyKey: "lamp_group",
		entity:   signal.EntityLampGroups,

		getAllIDs: s.catalog.Groups.GetAllIDs,
		get:       s.catalog.Groups.Get,
		getName:   s.catalog.Groups.GetName,
		setName:   s.catalog.Groups.SetName,
		create:    s.catalog.Groups.Create,
		update:    s.catalog.Groups.Update,
		delete:    s.catalog.Groups.Delete,

		validateCreate: s.validateGroupRefs,
		validateUpdate: s.validateGroupUpdate,
		canDelete:      s.resolver.CanDeleteGroup,
	})
}
