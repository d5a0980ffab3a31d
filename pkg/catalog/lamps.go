package catalog

import "github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"

// LampStore holds discovered lamps. Lamps are never admission-controlled and
// never created by a client; entries come and go with announce/session-loss
// on the Lamp Session Pool.
type LampStore struct {
	store *Store[lsftypes.Lamp]
}

func newLampStore() *LampStore {
	return &LampStore{
		store: NewStore(0,
			func(l lsftypes.Lamp) string { return l.ID },
			func(l lsftypes.Lamp, id string) lsftypes.Lamp { l.ID = id; return l },
			func(l lsftypes.Lamp) lsftypes.Names { return l.Names },
			func(l lsftypes.Lamp, n lsftypes.Names) lsftypes.Lamp { l.Names = n; return l },
		),
	}
}

// Add registers or re-registers a discovered lamp under its device id.
func (s *LampStore) Add(lamp lsftypes.Lamp) {
	_, _ = s.store.CreateWithID(lamp.ID, lamp, "", "")
}

// Remove drops a lamp that is no longer reachable, returning it if present.
func (s *LampStore) Remove(id string) (lsftypes.Lamp, bool) {
	v, err := s.store.Delete(id)
	return v, err == nil
}

func (s *LampStore) GetAllIDs() []string                       { return s.store.GetAllIDs() }
func (s *LampStore) Get(id string) (lsftypes.Lamp, bool)        { return s.store.Get(id) }
func (s *LampStore) GetName(id, lang string) (string, bool)     { return s.store.GetName(id, lang) }
func (s *LampStore) SetName(id, lang, name string) error        { return s.store.SetName(id, lang, name) }
func (s *LampStore) Update(id string, lamp lsftypes.Lamp) error { return s.store.Update(id, lamp) }
func (s *LampStore) Snapshot() map[string]lsftypes.Lamp         { return s.store.Snapshot() }
func (s *LampStore) Generation() uint32                         { return s.store.Generation() }
func (s *LampStore) Len() int                                   { return s.store.Len() }
