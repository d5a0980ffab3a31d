package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

type widget struct {
	ID    string
	Names lsftypes.Names
	Value int
}

func newWidgetStore(cap int) *Store[widget] {
	return NewStore(cap,
		func(w widget) string { return w.ID },
		func(w widget, id string) widget { w.ID = id; return w },
		func(w widget) lsftypes.Names { return w.Names },
		func(w widget, n lsftypes.Names) widget { w.Names = n; return w },
	)
}

func TestStore_CreateGetDelete(t *testing.T) {
	s := newWidgetStore(0)

	id, err := s.Create(widget{Value: 1}, "en", "one")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, 1, got.Value)
	assert.Equal(t, id, got.ID)

	_, err = s.Delete(id)
	require.NoError(t, err)
	_, ok = s.Get(id)
	assert.False(t, ok)
}

func TestStore_DeleteUnknownIsNotFound(t *testing.T) {
	s := newWidgetStore(0)
	_, err := s.Delete("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_CapacityEnforced(t *testing.T) {
	s := newWidgetStore(2)

	_, err := s.Create(widget{Value: 1}, "", "")
	require.NoError(t, err)
	_, err = s.Create(widget{Value: 2}, "", "")
	require.NoError(t, err)

	_, err = s.Create(widget{Value: 3}, "", "")
	assert.True(t, errors.Is(err, ErrCapacity))
}

func TestStore_UpdatePreservesIDAndNames(t *testing.T) {
	s := newWidgetStore(0)
	id, err := s.Create(widget{Value: 1}, "fr", "un")
	require.NoError(t, err)

	err = s.Update(id, widget{Value: 99})
	require.NoError(t, err)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 99, got.Value)
	name, ok := s.GetName(id, "fr")
	require.True(t, ok)
	assert.Equal(t, "un", name)
}

func TestStore_SetNameBumpsGeneration(t *testing.T) {
	s := newWidgetStore(0)
	id, err := s.Create(widget{}, "", "")
	require.NoError(t, err)

	before := s.Generation()
	require.NoError(t, s.SetName(id, "en", "hello"))
	assert.Greater(t, s.Generation(), before)

	name, ok := s.GetName(id, "en")
	require.True(t, ok)
	assert.Equal(t, "hello", name)
}

func TestStore_Reset(t *testing.T) {
	s := newWidgetStore(0)
	_, err := s.Create(widget{Value: 1}, "", "")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestStore_GetAllIDsAndSnapshotAreDefensiveCopies(t *testing.T) {
	s := newWidgetStore(0)
	id, err := s.Create(widget{Value: 1}, "", "")
	require.NoError(t, err)

	ids := s.GetAllIDs()
	require.Len(t, ids, 1)

	snap := s.Snapshot()
	w := snap[id]
	w.Value = 999
	got, _ := s.Get(id)
	assert.Equal(t, 1, got.Value, "mutating a snapshot copy must not affect the store")
}
