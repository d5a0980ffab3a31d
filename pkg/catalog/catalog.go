package catalog

import "github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"

// Catalog is the Controller Service's authoritative entity store: five
// independently-locked maps, one per entity type.
type Catalog struct {
	Lamps        *LampStore
	Groups       *GroupStore
	Presets      *PresetStore
	Scenes       *SceneStore
	MasterScenes *MasterSceneStore
}

// New builds an empty Catalog, seeding ALL_LAMPS and the default preset with
// bootState as the default preset's state.
func New(bootState lsftypes.LampState) *Catalog {
	return &Catalog{
		Lamps:        newLampStore(),
		Groups:       newGroupStore(),
		Presets:      newPresetStore(bootState),
		Scenes:       newSceneStore(),
		MasterScenes: newMasterSceneStore(),
	}
}

// AddLamp registers a discovered lamp and keeps ALL_LAMPS' membership in
// sync, matching the teacher's pattern of updating a derived index under the
// owning store's own lock rather than a shared global one.
func (c *Catalog) AddLamp(lamp lsftypes.Lamp) {
	c.Lamps.Add(lamp)
	c.Groups.SyncAllLamps(c.Lamps.GetAllIDs())
}

// RemoveLamp drops a lamp that is no longer reachable and resyncs ALL_LAMPS.
func (c *Catalog) RemoveLamp(id string) (lsftypes.Lamp, bool) {
	lamp, ok := c.Lamps.Remove(id)
	c.Groups.SyncAllLamps(c.Lamps.GetAllIDs())
	return lamp, ok
}

// Reset clears every user-created catalog back to its seeded state. Lamps
// are left untouched: they reflect reality, not catalog state.
func (c *Catalog) Reset(bootState lsftypes.LampState) {
	c.Groups.store.Reset()
	_, _ = c.Groups.store.CreateWithID(lsftypes.AllLampsGroupID, lsftypes.LampGroup{
		Lamps:     make(map[string]struct{}),
		SubGroups: make(map[string]struct{}),
	}, "", "")
	c.Groups.SyncAllLamps(c.Lamps.GetAllIDs())

	c.Presets.store.Reset()
	_, _ = c.Presets.store.CreateWithID(lsftypes.DefaultPresetID, lsftypes.Preset{
		State: bootState,
		OverrideMask: lsftypes.StateFieldMask{
			OnOff: true, Hue: true, Saturation: true, ColorTemp: true, Brightness: true,
		},
	}, "", "")

	c.Scenes.store.Reset()
	c.MasterScenes.store.Reset()
}
