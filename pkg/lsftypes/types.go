// Package lsftypes defines the shared entity model for the lighting control
// system: Lamps, Lamp Groups, Presets, Scenes, and Master Scenes, plus the
// field types those entities are built from.
package lsftypes

// MaxIDLength bounds every opaque identifier, per the data model.
const MaxIDLength = 64

// AllLampsGroupID is the synthetic, non-deletable group representing every
// known lamp. It is never admission-controlled and never mutated directly.
const AllLampsGroupID = "ALL_LAMPS"

// DefaultPresetID is the distinguished preset holding the boot state, seeded
// at catalog construction.
const DefaultPresetID = "DEFAULT_LAMP_STATE"

// LampState is the mutable, observed on/off + color state of a lamp.
// Fields use domain-normalized fixed-point u32, matching the wire contract.
type LampState struct {
	OnOff      bool   `json:"onOff"`
	Hue        uint32 `json:"hue"`
	Saturation uint32 `json:"saturation"`
	ColorTemp  uint32 `json:"colorTemp"`
	Brightness uint32 `json:"brightness"`
}

// LampParameters are lamp-reported operating parameters.
type LampParameters struct {
	EnergyUsageMilliwatts uint32 `json:"energyUsageMilliwatts"`
	LumensOutput          uint32 `json:"lumensOutput"`
}

// LampDetails are immutable hardware facts learned when a lamp announces.
type LampDetails struct {
	Make               string `json:"make"`
	Model              string `json:"model"`
	DeviceType         string `json:"deviceType"`
	BaseType           string `json:"baseType"`
	BeamAngle          uint32 `json:"beamAngle"`
	Dimmable           bool   `json:"dimmable"`
	Color              bool   `json:"color"`
	VariableColorTemp  bool   `json:"variableColorTemp"`
	HasEffects         bool   `json:"hasEffects"`
	Voltage            uint32 `json:"voltage"`
	Wattage            uint32 `json:"wattage"`
	WattageEquivalent  uint32 `json:"wattageEquivalent"`
	MaxOutput          uint32 `json:"maxOutput"`
	MinTemperature     uint32 `json:"minTemperature"`
	MaxTemperature     uint32 `json:"maxTemperature"`
	ColorRenderingIndex uint32 `json:"cri"`
	LifespanHours      uint32 `json:"lifespanHours"`
}

// Names holds the multilingual (language tag -> display name) map every
// entity carries. The zero value is a valid, empty Names.
type Names map[string]string

// Clone returns a defensive copy.
func (n Names) Clone() Names {
	out := make(Names, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// Lamp is discovered, not created. The service holds only last-observed
// state and issues commands; device state is owned by the lamp firmware.
type Lamp struct {
	ID         string
	Names      Names
	State      LampState
	Parameters LampParameters
	Details    LampDetails
	Faults     map[uint32]struct{}
}

// LampGroup is user-created; sub_groups form a DAG validated on mutation.
type LampGroup struct {
	ID        string
	Names     Names
	Lamps     map[string]struct{}
	SubGroups map[string]struct{}
}

// Preset is a partial or full LampState template. OverrideMask marks which
// fields are authoritative; a field absent from OverrideMask is "do not
// override" and is skipped when the preset is applied.
type Preset struct {
	ID           string
	Names        Names
	State        LampState
	OverrideMask StateFieldMask
}

// StateFieldMask marks which LampState fields a Preset or field-oriented
// mutation actually carries, versus fields left untouched.
type StateFieldMask struct {
	OnOff      bool
	Hue        bool
	Saturation bool
	ColorTemp  bool
	Brightness bool
}

// EffectKind tags the eight effect-component variants a Scene is built from.
type EffectKind int

const (
	EffectTransitionToState EffectKind = iota
	EffectTransitionToPreset
	EffectPulseWithState
	EffectPulseWithPreset
	EffectStrobeWithState
	EffectStrobeWithPreset
	EffectCycleWithState
	EffectCycleWithPreset
)

func (k EffectKind) String() string {
	switch k {
	case EffectTransitionToState:
		return "transition_to_state"
	case EffectTransitionToPreset:
		return "transition_to_preset"
	case EffectPulseWithState:
		return "pulse_with_state"
	case EffectPulseWithPreset:
		return "pulse_with_preset"
	case EffectStrobeWithState:
		return "strobe_with_state"
	case EffectStrobeWithPreset:
		return "strobe_with_preset"
	case EffectCycleWithState:
		return "cycle_with_state"
	case EffectCycleWithPreset:
		return "cycle_with_preset"
	default:
		return "unknown"
	}
}

// UsesPreset reports whether the kind resolves its target state from a
// preset reference rather than an inline LampState.
func (k EffectKind) UsesPreset() bool {
	switch k {
	case EffectTransitionToPreset, EffectPulseWithPreset, EffectStrobeWithPreset, EffectCycleWithPreset:
		return true
	default:
		return false
	}
}

// IsPulseFamily reports whether the kind repeats (pulse/strobe/cycle) rather
// than transitioning once.
func (k EffectKind) IsPulseFamily() bool {
	return k != EffectTransitionToState && k != EffectTransitionToPreset
}

// EffectTarget is the (lamps, groups) address set every effect component
// carries; groups are expanded to lamps by the Dependency Resolver.
type EffectTarget struct {
	Lamps  map[string]struct{}
	Groups map[string]struct{}
}

// EffectComponent is one element of a Scene's declarative program: a tagged
// record carrying target lamps/groups plus kind-specific parameters.
type EffectComponent struct {
	Kind           EffectKind
	Target         EffectTarget
	State          LampState      // used when !Kind.UsesPreset()
	PresetID       string         // used when Kind.UsesPreset()
	TransitionMS   uint32         // transition_to_state / transition_to_preset
	PeriodMS       uint32         // pulse/strobe/cycle
	DurationMS     uint32         // pulse/cycle "on" duration; strobe derives period/2
	NumPulses      uint32         // pulse/strobe/cycle repeat count
}

// Scene is one ordered list of effect components; each component carries its
// own kind, so components of different kinds may share the list.
type Scene struct {
	ID         string
	Names      Names
	Components []EffectComponent
}

// MasterScene applies its contained Scenes concurrently with a shared t0.
type MasterScene struct {
	ID     string
	Names  Names
	Scenes []string
}
