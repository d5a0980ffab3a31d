package catalog

import "github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"

// PresetStore holds Presets, including the distinguished default preset
// seeded at construction with the boot state.
type PresetStore struct {
	store *Store[lsftypes.Preset]
}

func newPresetStore(bootState lsftypes.LampState) *PresetStore {
	s := &PresetStore{
		store: NewStore(MaxEntitiesPerType,
			func(p lsftypes.Preset) string { return p.ID },
			func(p lsftypes.Preset, id string) lsftypes.Preset { p.ID = id; return p },
			func(p lsftypes.Preset) lsftypes.Names { return p.Names },
			func(p lsftypes.Preset, n lsftypes.Names) lsftypes.Preset { p.Names = n; return p },
		),
	}
	_, _ = s.store.CreateWithID(lsftypes.DefaultPresetID, lsftypes.Preset{
		State: bootState,
		OverrideMask: lsftypes.StateFieldMask{
			OnOff: true, Hue: true, Saturation: true, ColorTemp: true, Brightness: true,
		},
	}, "", "")
	return s
}

func (s *PresetStore) GetAllIDs() []string                    { return s.store.GetAllIDs() }
func (s *PresetStore) Get(id string) (lsftypes.Preset, bool)  { return s.store.Get(id) }
func (s *PresetStore) GetName(id, lang string) (string, bool) { return s.store.GetName(id, lang) }
func (s *PresetStore) SetName(id, lang, name string) error    { return s.store.SetName(id, lang, name) }

func (s *PresetStore) Create(p lsftypes.Preset, name, lang string) (string, error) {
	return s.store.Create(p, name, lang)
}

func (s *PresetStore) Update(id string, p lsftypes.Preset) error { return s.store.Update(id, p) }
func (s *PresetStore) Delete(id string) (lsftypes.Preset, error) { return s.store.Delete(id) }
func (s *PresetStore) Snapshot() map[string]lsftypes.Preset      { return s.store.Snapshot() }
func (s *PresetStore) Generation() uint32                        { return s.store.Generation() }
func (s *PresetStore) Len() int                                  { return s.store.Len() }
