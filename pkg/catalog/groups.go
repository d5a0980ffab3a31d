package catalog

import (
	"fmt"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

// MaxEntitiesPerType is the admission-control cap for every user-created
// catalog (groups, presets, scenes, master scenes); lamps are exempt since
// they are discovered, not created. A package-level var rather than a const
// so cmd/controllerd can apply the configured catalog cap before calling
// catalog.New.
var MaxEntitiesPerType = 100

// GroupStore holds LampGroups, including the synthetic non-deletable
// ALL_LAMPS group seeded at construction.
type GroupStore struct {
	store *Store[lsftypes.LampGroup]
}

func newGroupStore() *GroupStore {
	s := &GroupStore{
		// +1: ALL_LAMPS is seeded below and must not count against the
		// user-created group cap (spec.md §3).
		store: NewStore(MaxEntitiesPerType+1,
			func(g lsftypes.LampGroup) string { return g.ID },
			func(g lsftypes.LampGroup, id string) lsftypes.LampGroup { g.ID = id; return g },
			func(g lsftypes.LampGroup) lsftypes.Names { return g.Names },
			func(g lsftypes.LampGroup, n lsftypes.Names) lsftypes.LampGroup { g.Names = n; return g },
		),
	}
	_, _ = s.store.CreateWithID(lsftypes.AllLampsGroupID, lsftypes.LampGroup{
		Lamps:     make(map[string]struct{}),
		SubGroups: make(map[string]struct{}),
	}, "", "")
	return s
}

func (s *GroupStore) GetAllIDs() []string                   { return s.store.GetAllIDs() }
func (s *GroupStore) Get(id string) (lsftypes.LampGroup, bool) { return s.store.Get(id) }
func (s *GroupStore) GetName(id, lang string) (string, bool) { return s.store.GetName(id, lang) }

func (s *GroupStore) SetName(id, lang, name string) error {
	if id == lsftypes.AllLampsGroupID {
		return fmt.Errorf("catalog: %w: ALL_LAMPS name is fixed", lsftypes.ErrInvalid)
	}
	return s.store.SetName(id, lang, name)
}

func (s *GroupStore) Create(g lsftypes.LampGroup, name, lang string) (string, error) {
	return s.store.Create(g, name, lang)
}

func (s *GroupStore) Update(id string, g lsftypes.LampGroup) error {
	if id == lsftypes.AllLampsGroupID {
		return fmt.Errorf("catalog: %w: ALL_LAMPS is not directly mutable", lsftypes.ErrInvalid)
	}
	return s.store.Update(id, g)
}

func (s *GroupStore) Delete(id string) (lsftypes.LampGroup, error) {
	if id == lsftypes.AllLampsGroupID {
		var zero lsftypes.LampGroup
		return zero, fmt.Errorf("catalog: %w: ALL_LAMPS cannot be deleted", lsftypes.ErrRejected)
	}
	return s.store.Delete(id)
}

func (s *GroupStore) Snapshot() map[string]lsftypes.LampGroup { return s.store.Snapshot() }
func (s *GroupStore) Generation() uint32                      { return s.store.Generation() }
func (s *GroupStore) Len() int                                { return s.store.Len() }

// SyncAllLamps rebuilds ALL_LAMPS' membership from the current lamp id set.
// Called by the catalog whenever the Lamp store changes membership.
func (s *GroupStore) SyncAllLamps(lampIDs []string) {
	members := make(map[string]struct{}, len(lampIDs))
	for _, id := range lampIDs {
		members[id] = struct{}{}
	}
	all, _ := s.store.Get(lsftypes.AllLampsGroupID)
	all.Lamps = members
	_ = s.store.Update(lsftypes.AllLampsGroupID, all)
}
