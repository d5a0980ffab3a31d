package catalog

import "github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"

// SceneStore holds Scenes: ordered lists of kind-tagged effect components.
type SceneStore struct {
	store *Store[lsftypes.Scene]
}

func newSceneStore() *SceneStore {
	return &SceneStore{
		store: NewStore(MaxEntitiesPerType,
			func(s lsftypes.Scene) string { return s.ID },
			func(s lsftypes.Scene, id string) lsftypes.Scene { s.ID = id; return s },
			func(s lsftypes.Scene) lsftypes.Names { return s.Names },
			func(s lsftypes.Scene, n lsftypes.Names) lsftypes.Scene { s.Names = n; return s },
		),
	}
}

func (s *SceneStore) GetAllIDs() []string                   { return s.store.GetAllIDs() }
func (s *SceneStore) Get(id string) (lsftypes.Scene, bool)  { return s.store.Get(id) }
func (s *SceneStore) GetName(id, lang string) (string, bool) { return s.store.GetName(id, lang) }
func (s *SceneStore) SetName(id, lang, name string) error    { return s.store.SetName(id, lang, name) }

func (s *SceneStore) Create(sc lsftypes.Scene, name, lang string) (string, error) {
	return s.store.Create(sc, name, lang)
}

func (s *SceneStore) Update(id string, sc lsftypes.Scene) error { return s.store.Update(id, sc) }
func (s *SceneStore) Delete(id string) (lsftypes.Scene, error)  { return s.store.Delete(id) }
func (s *SceneStore) Snapshot() map[string]lsftypes.Scene       { return s.store.Snapshot() }
func (s *SceneStore) Generation() uint32                        { return s.store.Generation() }
func (s *SceneStore) Len() int                                  { return s.store.Len() }
