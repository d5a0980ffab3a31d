// Package depgraph implements the Dependency Resolver: existence checks,
// reference validation, delete-refusal rules, and lamp-group expansion.
//
// Grounded on the teacher's pkg/config/validator.go (staged, explicitly
// ordered validation with wrapped sentinel errors) for the check shape, and
// on sub_groups cycle detection via an iterative DFS over the forward
// sub_groups edges read from the catalog's current snapshot rather than a
// persisted graph store, since the spec calls for an in-memory catalog
// rather than an ORM.
package depgraph

import (
	"fmt"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

// Resolver answers dependency and reference questions over a Catalog. It
// holds no state of its own; every query reads a fresh snapshot.
type Resolver struct {
	catalog *catalog.Catalog
}

// New builds a Resolver bound to c.
func New(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// CanDeleteGroup reports whether group id may be deleted: refused while any
// other LampGroup lists it in sub_groups, or any Scene component targets it.
func (r *Resolver) CanDeleteGroup(id string) error {
	groups := r.catalog.Groups.Snapshot()
	for otherID, g := range groups {
		if otherID == id {
			continue
		}
		if _, ok := g.SubGroups[id]; ok {
			return fmt.Errorf("depgraph: %w: group %s is a sub-group of %s", lsftypes.ErrDependency, id, otherID)
		}
	}
	scenes := r.catalog.Scenes.Snapshot()
	for sceneID, sc := range scenes {
		for _, comp := range sc.Components {
			if _, ok := comp.Target.Groups[id]; ok {
				return fmt.Errorf("depgraph: %w: group %s is referenced by scene %s", lsftypes.ErrDependency, id, sceneID)
			}
		}
	}
	return nil
}

// CanDeletePreset reports whether preset id may be deleted: refused while
// any Scene component resolves its target state from it.
func (r *Resolver) CanDeletePreset(id string) error {
	scenes := r.catalog.Scenes.Snapshot()
	for sceneID, sc := range scenes {
		for _, comp := range sc.Components {
			if comp.Kind.UsesPreset() && comp.PresetID == id {
				return fmt.Errorf("depgraph: %w: preset %s is referenced by scene %s", lsftypes.ErrDependency, id, sceneID)
			}
		}
	}
	return nil
}

// CanDeleteScene reports whether scene id may be deleted: refused while any
// MasterScene contains it.
func (r *Resolver) CanDeleteScene(id string) error {
	masters := r.catalog.MasterScenes.Snapshot()
	for masterID, ms := range masters {
		for _, sceneID := range ms.Scenes {
			if sceneID == id {
				return fmt.Errorf("depgraph: %w: scene %s is referenced by master scene %s", lsftypes.ErrDependency, id, masterID)
			}
		}
	}
	return nil
}

// ValidateSceneReferences checks that every group and preset a Scene's
// components reference currently exists.
func (r *Resolver) ValidateSceneReferences(sc lsftypes.Scene) error {
	for _, comp := range sc.Components {
		for groupID := range comp.Target.Groups {
			if _, ok := r.catalog.Groups.Get(groupID); !ok {
				return lsftypes.NewValidationError("target.groups", fmt.Sprintf("group %s does not exist", groupID))
			}
		}
		for lampID := range comp.Target.Lamps {
			if _, ok := r.catalog.Lamps.Get(lampID); !ok {
				return lsftypes.NewValidationError("target.lamps", fmt.Sprintf("lamp %s does not exist", lampID))
			}
		}
		if comp.Kind.UsesPreset() {
			if _, ok := r.catalog.Presets.Get(comp.PresetID); !ok {
				return lsftypes.NewValidationError("preset_id", fmt.Sprintf("preset %s does not exist", comp.PresetID))
			}
		}
	}
	return nil
}

// ValidateMasterSceneReferences checks that every scene a MasterScene
// contains currently exists.
func (r *Resolver) ValidateMasterSceneReferences(ms lsftypes.MasterScene) error {
	for _, sceneID := range ms.Scenes {
		if _, ok := r.catalog.Scenes.Get(sceneID); !ok {
			return lsftypes.NewValidationError("scenes", fmt.Sprintf("scene %s does not exist", sceneID))
		}
	}
	return nil
}

// dfsFrame is one stack entry for the iterative cycle-detection DFS: the
// node being explored, its children, and how far through them we are.
type dfsFrame struct {
	node     string
	children []string
	idx      int
}

// ValidateGroupSubGroups checks that installing subGroups as group id's
// sub_groups set would not create a cycle (directly or transitively),
// including self-reference. It consults the catalog's current group graph
// for every node other than id itself.
func (r *Resolver) ValidateGroupSubGroups(id string, subGroups map[string]struct{}) error {
	if _, ok := subGroups[id]; ok {
		return fmt.Errorf("depgraph: %w: group cannot reference itself", lsftypes.ErrDependencyCycle)
	}

	groups := r.catalog.Groups.Snapshot()
	childrenOf := func(node string) []string {
		var set map[string]struct{}
		if node == id {
			set = subGroups
		} else if g, ok := groups[node]; ok {
			set = g.SubGroups
		}
		out := make([]string, 0, len(set))
		for c := range set {
			out = append(out, c)
		}
		return out
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	stack := []*dfsFrame{{node: id, children: childrenOf(id)}}
	onStack[id] = true

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.idx == len(top.children) {
			onStack[top.node] = false
			visited[top.node] = true
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.children[top.idx]
		top.idx++
		if onStack[child] {
			return fmt.Errorf("depgraph: %w: sub-group chain through %s cycles back to %s", lsftypes.ErrDependencyCycle, child, id)
		}
		if visited[child] {
			continue
		}
		onStack[child] = true
		stack = append(stack, &dfsFrame{node: child, children: childrenOf(child)})
	}
	return nil
}

// ExpandGroup returns the transitive closure of group id's membership: its
// direct lamps unioned with the direct lamps of every sub-group, recursively.
// Already-visited groups are skipped, which also makes this safe against a
// cycle that somehow slipped past ValidateGroupSubGroups.
func (r *Resolver) ExpandGroup(id string) (map[string]struct{}, error) {
	groups := r.catalog.Groups.Snapshot()
	out := make(map[string]struct{})
	visited := make(map[string]bool)

	var walk func(node string) error
	walk = func(node string) error {
		if visited[node] {
			return nil
		}
		visited[node] = true
		g, ok := groups[node]
		if !ok {
			return fmt.Errorf("depgraph: %w: group %s", lsftypes.ErrNotFound, node)
		}
		for lampID := range g.Lamps {
			out[lampID] = struct{}{}
		}
		for subID := range g.SubGroups {
			if err := walk(subID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(id); err != nil {
		return nil, err
	}
	return out, nil
}

// TransitiveRefs computes every group, preset, and lamp a Scene touches:
// the groups and presets its components reference directly, and the full
// set of lamps reached once every referenced group is expanded. The Scene
// Compiler and the CanDelete* checks do not call it; they expand groups and
// scan references themselves.
func (r *Resolver) TransitiveRefs(sceneID string) (groups, presets, lamps map[string]struct{}, err error) {
	sc, ok := r.catalog.Scenes.Get(sceneID)
	if !ok {
		return nil, nil, nil, fmt.Errorf("depgraph: %w: scene %s", lsftypes.ErrNotFound, sceneID)
	}

	groups = make(map[string]struct{})
	presets = make(map[string]struct{})
	lamps = make(map[string]struct{})

	for _, comp := range sc.Components {
		for groupID := range comp.Target.Groups {
			groups[groupID] = struct{}{}
			expanded, expErr := r.ExpandGroup(groupID)
			if expErr != nil {
				err = expErr
				return
			}
			for lampID := range expanded {
				lamps[lampID] = struct{}{}
			}
		}
		for lampID := range comp.Target.Lamps {
			lamps[lampID] = struct{}{}
		}
		if comp.Kind.UsesPreset() {
			presets[comp.PresetID] = struct{}{}
		}
	}
	return groups, presets, lamps, nil
}
