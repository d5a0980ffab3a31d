package scene

import (
	"fmt"
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/depgraph"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

var fullMask = lsftypes.StateFieldMask{OnOff: true, Hue: true, Saturation: true, ColorTemp: true, Brightness: true}

// Compiler expands Scene declarations into per-lamp Descriptors, resolving
// group membership and preset references against the live catalog.
type Compiler struct {
	catalog  *catalog.Catalog
	resolver *depgraph.Resolver
}

// NewCompiler builds a Compiler bound to c and r.
func NewCompiler(c *catalog.Catalog, r *depgraph.Resolver) *Compiler {
	return &Compiler{catalog: c, resolver: r}
}

// ValidateComponent checks the num_pulses/period/duration invariants that
// apply to the pulse/strobe/cycle family. Transition components carry no
// repeat parameters and are always valid on this axis.
func ValidateComponent(comp lsftypes.EffectComponent) error {
	if !comp.Kind.IsPulseFamily() {
		return nil
	}
	if comp.NumPulses == 0 {
		return lsftypes.NewValidationError("num_pulses", "must be greater than zero")
	}
	if comp.PeriodMS == 0 {
		return lsftypes.NewValidationError("period_ms", "must be greater than zero")
	}
	if comp.DurationMS > comp.PeriodMS {
		return lsftypes.NewValidationError("duration_ms", "must not exceed period_ms")
	}
	return nil
}

// ValidateScene checks every component's timing invariants. Existence of
// referenced groups/presets is checked separately via the Dependency
// Resolver (ValidateSceneReferences), since that needs a fresh catalog read
// at create/update time, not at compile time.
func ValidateScene(sc lsftypes.Scene) error {
	for i, comp := range sc.Components {
		if err := ValidateComponent(comp); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
	}
	return nil
}

// Compile expands sc into a per-lamp ordered Descriptor list, anchored at
// t0. A component whose preset has been deleted since validation is
// skipped (recorded in the returned SkippedComponent list) but its siblings
// still run, per the apply-time ERR_DEPENDENCY semantics.
func (c *Compiler) Compile(sc lsftypes.Scene, t0 time.Time) (map[string][]Descriptor, []SkippedComponent, error) {
	perLamp := make(map[string][]Descriptor)
	var skipped []SkippedComponent

	for idx, comp := range sc.Components {
		state := comp.State
		mask := fullMask
		if comp.Kind.UsesPreset() {
			preset, ok := c.catalog.Presets.Get(comp.PresetID)
			if !ok {
				skipped = append(skipped, SkippedComponent{Index: idx, PresetID: comp.PresetID})
				continue
			}
			state = preset.State
			mask = preset.OverrideMask
		}

		desc := deriveDescriptor(comp, state, mask, t0)

		lamps := make(map[string]struct{}, len(comp.Target.Lamps))
		for lampID := range comp.Target.Lamps {
			lamps[lampID] = struct{}{}
		}
		for groupID := range comp.Target.Groups {
			expanded, err := c.resolver.ExpandGroup(groupID)
			if err != nil {
				return nil, nil, fmt.Errorf("scene: component %d: %w", idx, err)
			}
			for lampID := range expanded {
				lamps[lampID] = struct{}{}
			}
		}

		for lampID := range lamps {
			perLamp[lampID] = append(perLamp[lampID], desc)
		}
	}
	return perLamp, skipped, nil
}

// deriveDescriptor implements the per-kind timing derivation from spec.md
// §4.5 step 3: transitions carry a transition period; pulse/cycle carry a
// period/duration/repeat-count triple; strobe is pulse with duration fixed
// at half its period (a 50% duty cycle).
func deriveDescriptor(comp lsftypes.EffectComponent, state lsftypes.LampState, mask lsftypes.StateFieldMask, t0 time.Time) Descriptor {
	d := Descriptor{
		Kind:    comp.Kind,
		State:   state,
		Mask:    mask,
		StartAt: t0,
	}

	switch {
	case comp.Kind == lsftypes.EffectTransitionToState || comp.Kind == lsftypes.EffectTransitionToPreset:
		d.TransitionMS = comp.TransitionMS
	case comp.Kind == lsftypes.EffectStrobeWithState || comp.Kind == lsftypes.EffectStrobeWithPreset:
		d.PeriodMS = comp.PeriodMS
		d.DurationMS = comp.PeriodMS / 2
		d.NumPulses = comp.NumPulses
	default: // pulse/cycle
		d.PeriodMS = comp.PeriodMS
		d.DurationMS = comp.DurationMS
		d.NumPulses = comp.NumPulses
	}
	return d
}
