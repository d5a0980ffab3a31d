package signal

import (
	"context"
	"sync"
)

// Batch accumulates catalog-entity ids touched by one request-handling call
// so that N mutations of the same (entity, kind) in that request produce one
// signal carrying the full id list, per the generation-counter coalescing
// rule. A Batch is meant to be created, used, and flushed within a single
// method handler; it is not a long-lived object.
type Batch struct {
	mu      sync.Mutex
	changes map[EntityType]map[ChangeKind]map[string]struct{}
}

// NewBatch returns an empty Batch.
func NewBatch() *Batch {
	return &Batch{changes: make(map[EntityType]map[ChangeKind]map[string]struct{})}
}

// Record notes that id of entity underwent kind during this request.
func (b *Batch) Record(entity EntityType, kind ChangeKind, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	byKind, ok := b.changes[entity]
	if !ok {
		byKind = make(map[ChangeKind]map[string]struct{})
		b.changes[entity] = byKind
	}
	ids, ok := byKind[kind]
	if !ok {
		ids = make(map[string]struct{})
		byKind[kind] = ids
	}
	ids[id] = struct{}{}
}

// Flush emits one coalesced signal per (entity, kind) pair recorded since
// construction, then clears the batch so it can be reused.
func (b *Batch) Flush(ctx context.Context, bcast *Broadcaster) {
	b.mu.Lock()
	changes := b.changes
	b.changes = make(map[EntityType]map[ChangeKind]map[string]struct{})
	b.mu.Unlock()

	for entity, byKind := range changes {
		for kind, idSet := range byKind {
			ids := make([]string, 0, len(idSet))
			for id := range idSet {
				ids = append(ids, id)
			}
			bcast.Emit(ctx, Name(entity, kind), map[string]any{"ids": ids})
		}
	}
}
