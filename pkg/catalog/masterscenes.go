package catalog

import "github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"

// MasterSceneStore holds MasterScenes: ordered lists of contained scene ids.
type MasterSceneStore struct {
	store *Store[lsftypes.MasterScene]
}

func newMasterSceneStore() *MasterSceneStore {
	return &MasterSceneStore{
		store: NewStore(MaxEntitiesPerType,
			func(m lsftypes.MasterScene) string { return m.ID },
			func(m lsftypes.MasterScene, id string) lsftypes.MasterScene { m.ID = id; return m },
			func(m lsftypes.MasterScene) lsftypes.Names { return m.Names },
			func(m lsftypes.MasterScene, n lsftypes.Names) lsftypes.MasterScene { m.Names = n; return m },
		),
	}
}

func (s *MasterSceneStore) GetAllIDs() []string                    { return s.store.GetAllIDs() }
func (s *MasterSceneStore) Get(id string) (lsftypes.MasterScene, bool) { return s.store.Get(id) }
func (s *MasterSceneStore) GetName(id, lang string) (string, bool) { return s.store.GetName(id, lang) }
func (s *MasterSceneStore) SetName(id, lang, name string) error    { return s.store.SetName(id, lang, name) }

func (s *MasterSceneStore) Create(m lsftypes.MasterScene, name, lang string) (string, error) {
	return s.store.Create(m, name, lang)
}

func (s *MasterSceneStore) Update(id string, m lsftypes.MasterScene) error {
	return s.store.Update(id, m)
}
func (s *MasterSceneStore) Delete(id string) (lsftypes.MasterScene, error) { return s.store.Delete(id) }
func (s *MasterSceneStore) Snapshot() map[string]lsftypes.MasterScene      { return s.store.Snapshot() }
func (s *MasterSceneStore) Generation() uint32                            { return s.store.Generation() }
func (s *MasterSceneStore) Len() int                                      { return s.store.Len() }
