package depgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New(lsftypes.LampState{})
	c.AddLamp(lsftypes.Lamp{ID: "lamp-1"})
	c.AddLamp(lsftypes.Lamp{ID: "lamp-2"})
	return c
}

func TestResolver_GroupDeleteRefusedWhenSubGroup(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	childID, err := c.Groups.Create(lsftypes.LampGroup{Lamps: map[string]struct{}{"lamp-1": {}}}, "", "")
	require.NoError(t, err)
	_, err = c.Groups.Create(lsftypes.LampGroup{SubGroups: map[string]struct{}{childID: {}}}, "", "")
	require.NoError(t, err)

	err = r.CanDeleteGroup(childID)
	assert.True(t, errors.Is(err, lsftypes.ErrDependency))
}

func TestResolver_GroupDeleteRefusedWhenSceneReferences(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	groupID, err := c.Groups.Create(lsftypes.LampGroup{Lamps: map[string]struct{}{"lamp-1": {}}}, "", "")
	require.NoError(t, err)

	_, err = c.Scenes.Create(lsftypes.Scene{
		Components: []lsftypes.EffectComponent{{
			Kind:   lsftypes.EffectTransitionToState,
			Target: lsftypes.EffectTarget{Groups: map[string]struct{}{groupID: {}}},
		}},
	}, "", "")
	require.NoError(t, err)

	err = r.CanDeleteGroup(groupID)
	assert.True(t, errors.Is(err, lsftypes.ErrDependency))
}

func TestResolver_PresetDeleteRefusedWhenSceneReferences(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	presetID, err := c.Presets.Create(lsftypes.Preset{}, "", "")
	require.NoError(t, err)

	_, err = c.Scenes.Create(lsftypes.Scene{
		Components: []lsftypes.EffectComponent{{
			Kind:     lsftypes.EffectTransitionToPreset,
			PresetID: presetID,
		}},
	}, "", "")
	require.NoError(t, err)

	err = r.CanDeletePreset(presetID)
	assert.True(t, errors.Is(err, lsftypes.ErrDependency))
}

func TestResolver_SceneDeleteRefusedWhenMasterSceneContains(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	sceneID, err := c.Scenes.Create(lsftypes.Scene{}, "", "")
	require.NoError(t, err)
	_, err = c.MasterScenes.Create(lsftypes.MasterScene{Scenes: []string{sceneID}}, "", "")
	require.NoError(t, err)

	err = r.CanDeleteScene(sceneID)
	assert.True(t, errors.Is(err, lsftypes.ErrDependency))
}

func TestResolver_CanDeleteGroupAllowedWhenUnreferenced(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	groupID, err := c.Groups.Create(lsftypes.LampGroup{}, "", "")
	require.NoError(t, err)

	assert.NoError(t, r.CanDeleteGroup(groupID))
}

func TestResolver_SelfReferenceIsCycle(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	groupID, err := c.Groups.Create(lsftypes.LampGroup{}, "", "")
	require.NoError(t, err)

	err = r.ValidateGroupSubGroups(groupID, map[string]struct{}{groupID: {}})
	assert.True(t, errors.Is(err, lsftypes.ErrDependencyCycle))
}

func TestResolver_TransitiveCycleDetected(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	a, err := c.Groups.Create(lsftypes.LampGroup{}, "", "")
	require.NoError(t, err)
	b, err := c.Groups.Create(lsftypes.LampGroup{SubGroups: map[string]struct{}{a: {}}}, "", "")
	require.NoError(t, err)

	// Proposing a -> b would close the cycle a -> b -> a.
	err = r.ValidateGroupSubGroups(a, map[string]struct{}{b: {}})
	assert.True(t, errors.Is(err, lsftypes.ErrDependencyCycle))
}

func TestResolver_NonCyclicChainAccepted(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	a, err := c.Groups.Create(lsftypes.LampGroup{}, "", "")
	require.NoError(t, err)
	b, err := c.Groups.Create(lsftypes.LampGroup{}, "", "")
	require.NoError(t, err)

	assert.NoError(t, r.ValidateGroupSubGroups(a, map[string]struct{}{b: {}}))
}

func TestResolver_ExpandGroupTransitiveClosure(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	inner, err := c.Groups.Create(lsftypes.LampGroup{Lamps: map[string]struct{}{"lamp-1": {}}}, "", "")
	require.NoError(t, err)
	outer, err := c.Groups.Create(lsftypes.LampGroup{
		Lamps:     map[string]struct{}{"lamp-2": {}},
		SubGroups: map[string]struct{}{inner: {}},
	}, "", "")
	require.NoError(t, err)

	lamps, err := r.ExpandGroup(outer)
	require.NoError(t, err)
	assert.Len(t, lamps, 2)
	_, ok1 := lamps["lamp-1"]
	_, ok2 := lamps["lamp-2"]
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestResolver_TransitiveRefsForScene(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	groupID, err := c.Groups.Create(lsftypes.LampGroup{Lamps: map[string]struct{}{"lamp-1": {}}}, "", "")
	require.NoError(t, err)
	presetID, err := c.Presets.Create(lsftypes.Preset{}, "", "")
	require.NoError(t, err)

	sceneID, err := c.Scenes.Create(lsftypes.Scene{
		Components: []lsftypes.EffectComponent{
			{Kind: lsftypes.EffectTransitionToPreset, PresetID: presetID, Target: lsftypes.EffectTarget{Groups: map[string]struct{}{groupID: {}}}},
			{Kind: lsftypes.EffectTransitionToState, Target: lsftypes.EffectTarget{Lamps: map[string]struct{}{"lamp-2": {}}}},
		},
	}, "", "")
	require.NoError(t, err)

	groups, presets, lamps, err := r.TransitiveRefs(sceneID)
	require.NoError(t, err)
	assert.Contains(t, groups, groupID)
	assert.Contains(t, presets, presetID)
	assert.Contains(t, lamps, "lamp-1")
	assert.Contains(t, lamps, "lamp-2")
}

func TestResolver_ValidateSceneReferencesRejectsMissingPreset(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	err := r.ValidateSceneReferences(lsftypes.Scene{
		Components: []lsftypes.EffectComponent{{Kind: lsftypes.EffectTransitionToPreset, PresetID: "missing"}},
	})
	assert.True(t, errors.Is(err, lsftypes.ErrInvalid))
}

func TestResolver_ValidateMasterSceneReferencesRejectsMissingScene(t *testing.T) {
	c := newTestCatalog(t)
	r := New(c)

	err := r.ValidateMasterSceneReferences(lsftypes.MasterScene{Scenes: []string{"missing"}})
	assert.True(t, errors.Is(err, lsftypes.ErrInvalid))
}
