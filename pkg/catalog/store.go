// Package catalog implements the Entity Catalog: five in-memory, id-keyed
// stores (Lamp, LampGroup, Preset, Scene, MasterScene), each protected by its
// own mutex, each exposing get_all_ids/get/get_name/set_name/create/update/
// delete/reset per spec.md §4.3.
//
// Grounded on the teacher's pkg/session/manager.go (locked in-memory map,
// uuid-generated ids, defensive copies on read) and pkg/config/chain.go
// (defensive-copy registry construction).
package catalog

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

// ErrNotFound is returned when an id has no corresponding entity.
var ErrNotFound = lsftypes.ErrNotFound

// ErrCapacity is returned when Create would exceed a store's cap.
var ErrCapacity = lsftypes.ErrCapacity

// idAccessor and namesAccessor let Store operate generically on entity
// structs that don't share an interface, the same functional-accessor shape
// the rest of this package's callers (groups.go, presets.go, ...) supply.
type idAccessor[T any] func(T) string
type namesAccessor[T any] func(T) lsftypes.Names
type namesSetter[T any] func(T, lsftypes.Names) T
type idSetter[T any] func(T, string) T

// Store is a generic, mutex-guarded, id-keyed catalog for one entity type.
// cap == 0 means unbounded (used for the Lamp store: lamps are discovered,
// not admission-controlled).
type Store[T any] struct {
	mu         sync.RWMutex
	entities   map[string]T
	generation uint32
	cap        int

	getID    idAccessor[T]
	setID    idSetter[T]
	getNames namesAccessor[T]
	setNames namesSetter[T]
}

// NewStore constructs an empty store. cap <= 0 means unbounded.
func NewStore[T any](cap int, getID idAccessor[T], setID idSetter[T], getNames namesAccessor[T], setNames namesSetter[T]) *Store[T] {
	return &Store[T]{
		entities: make(map[string]T),
		cap:      cap,
		getID:    getID,
		setID:    setID,
		getNames: getNames,
		setNames: setNames,
	}
}

// Generation returns the store's current mutation counter.
func (s *Store[T]) Generation() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Len reports the current entity count.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// GetAllIDs returns every id currently in the store, in no particular order.
func (s *Store[T]) GetAllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	return ids
}

// Get returns a copy of the entity for id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entities[id]
	return v, ok
}

// GetName returns the name for id in language, and whether it is set.
func (s *Store[T]) GetName(id, language string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entities[id]
	if !ok {
		return "", false
	}
	name, ok := s.getNames(v)[language]
	return name, ok
}

// SetName sets the name for id in language, bumping the generation counter.
func (s *Store[T]) SetName(id, language, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entities[id]
	if !ok {
		return fmt.Errorf("catalog: %w: %s", ErrNotFound, id)
	}
	names := s.getNames(v).Clone()
	names[language] = name
	s.entities[id] = s.setNames(v, names)
	s.generation++
	return nil
}

// insertLocked installs entity under a fresh or caller-supplied id, enforcing
// the capacity cap. Callers must hold s.mu.
func (s *Store[T]) insertLocked(entity T, id, name, language string) (string, error) {
	if s.cap > 0 && len(s.entities) >= s.cap {
		if _, exists := s.entities[id]; !exists {
			return "", fmt.Errorf("catalog: %w: limit of %d reached", ErrCapacity, s.cap)
		}
	}
	entity = s.setID(entity, id)
	names := s.getNames(entity).Clone()
	if name != "" {
		if names == nil {
			names = make(lsftypes.Names, 1)
		}
		names[language] = name
	}
	entity = s.setNames(entity, names)
	s.entities[id] = entity
	s.generation++
	return id, nil
}

// Create allocates a fresh id for entity, seeds its initial name, and
// installs it. Returns the allocated id.
func (s *Store[T]) Create(entity T, name, language string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	return s.insertLocked(entity, id, name, language)
}

// CreateWithID installs entity under a caller-chosen id (used to seed
// well-known ids such as ALL_LAMPS or DEFAULT_LAMP_STATE, and to register
// discovered lamps under their announced device id). It bypasses the
// capacity cap when id already exists, i.e. on re-announce.
func (s *Store[T]) CreateWithID(id string, entity T, name, language string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(entity, id, name, language)
}

// Update replaces the entity stored at id, preserving its id and names,
// bumping the generation counter.
func (s *Store[T]) Update(id string, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entities[id]
	if !ok {
		return fmt.Errorf("catalog: %w: %s", ErrNotFound, id)
	}
	entity = s.setID(entity, id)
	entity = s.setNames(entity, s.getNames(existing))
	s.entities[id] = entity
	s.generation++
	return nil
}

// Delete removes id and returns the entity that was removed.
func (s *Store[T]) Delete(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entities[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("catalog: %w: %s", ErrNotFound, id)
	}
	delete(s.entities, id)
	s.generation++
	return v, nil
}

// Reset clears every entity, bumping the generation counter once.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = make(map[string]T)
	s.generation++
}

// Snapshot returns a defensive copy of every entity, keyed by id.
func (s *Store[T]) Snapshot() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]T, len(s.entities))
	for k, v := range s.entities {
		out[k] = v
	}
	return out
}
