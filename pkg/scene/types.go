// Package scene implements the Scene Compiler & Executor: expanding a
// declarative Scene into per-lamp, time-anchored effect descriptors and
// dispatching them through the Lamp Session Pool.
//
// Grounded on the teacher's pkg/queue (time-anchored, cancelable work handed
// to a pool of workers) and pkg/config/chain.go's tagged-stage pattern for
// the eight effect-component kinds; the "accept, don't wait for completion"
// signal timing mirrors pkg/events/publisher.go's fire-and-forget
// notifyOnly calls.
package scene

import (
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

// Descriptor is one lamp's fully-resolved effect instruction: target state,
// concrete timing, and the moment it was anchored to. Descriptors for the
// same lamp are submitted together, in Scene component-list order; a lamp
// actor applies them in that order, so a later descriptor naturally
// supersedes an earlier one for any state field both touch.
type Descriptor struct {
	Kind         lsftypes.EffectKind
	State        lsftypes.LampState
	Mask         lsftypes.StateFieldMask // which State fields are authoritative
	TransitionMS uint32
	PeriodMS     uint32
	DurationMS   uint32
	NumPulses    uint32
	StartAt      time.Time
}

// ApplyEffectsArgs is the payload one lamp-pool call carries: every
// descriptor destined for that lamp from a single Scene (or MasterScene)
// apply, already in the order they must be executed.
type ApplyEffectsArgs struct {
	Descriptors []Descriptor
}

// SkippedComponent records a component whose preset reference could not be
// resolved at execution time (deleted between validation and apply); its
// siblings still run, and this is surfaced as an ERR_DEPENDENCY entry on the
// reply.
type SkippedComponent struct {
	Index    int
	PresetID string
}

// ApplyResult is what applying one Scene produces.
type ApplyResult struct {
	SceneID string
	Skipped []SkippedComponent
	LampIDs []string
}
