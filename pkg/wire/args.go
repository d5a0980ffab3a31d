// Package wire defines the call-argument and reply-payload shapes carried
// over transport.Bus between the Client Façade and the Controller Service.
// Both pkg/facade (client side) and pkg/controllerservice (server side)
// decode/encode against these exported types rather than private per-package
// structs, since the in-process transport.MemoryBus carries args as `any`
// without a marshal/unmarshal step — the two sides must share the concrete
// Go type to type-assert against it.
//
// Grounded on the teacher's pkg/mcp (shared request/response structs between
// client and router) and pkg/models (plain request/response DTOs used
// across package boundaries).
package wire

import "github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"

// StateField names one field of LampState a field-oriented mutation call
// targets. The wire protocol carries this as a string, per spec.md §4.7.
type StateField string

const (
	FieldOnOff      StateField = "OnOff"
	FieldHue        StateField = "Hue"
	FieldSaturation StateField = "Saturation"
	FieldBrightness StateField = "Brightness"
	FieldColorTemp  StateField = "ColorTemp"
)

// IDArgs is the {id} call shape (Get<Type>, Delete<Type>).
type IDArgs struct {
	ID string
}

// IDLangArgs is the {id, language} call shape (Get<Type>Name).
type IDLangArgs struct {
	ID       string
	Language string
}

// IDNameLangArgs is the {id, name, language} call shape (Set<Type>Name).
type IDNameLangArgs struct {
	ID       string
	Name     string
	Language string
}

// CreateArgs is the {fields..., name, language} call shape (Create<Type>).
type CreateArgs[T any] struct {
	Fields   T
	Name     string
	Language string
}

// UpdateArgs is the {id, fields...} call shape (Update<Type>).
type UpdateArgs[T any] struct {
	ID     string
	Fields T
}

// GetReply is the {response_code, id, fields...} reply shape (Get<Type>).
type GetReply[T any] struct {
	Code   lsftypes.LSFResponseCode
	ID     string
	Entity T
}

// TransitionFieldArgs is the generic TransitionField(entity_id, field_name,
// value, transition_period) call shape every field-oriented mutation sugar
// method delegates to.
type TransitionFieldArgs struct {
	ID           string
	Field        StateField
	Value        any
	TransitionMS uint32
}

// ResetFieldArgs is the {id, field} call shape for Reset<Type>StateField.
type ResetFieldArgs struct {
	ID    string
	Field StateField
}

// ApplyArgs is the {id} call shape for ApplyScene/ApplyMasterScene.
type ApplyArgs struct {
	ID string
}

// ApplyReply is the {response_code, id} shape ApplyScene/ApplyMasterScene
// reply with.
type ApplyReply struct {
	Code lsftypes.LSFResponseCode
	ID   string
}

// TransitionStateArgs is the {id, state, transition_period} call shape
// shared by TransitionLampState and TransitionLampGroupState.
type TransitionStateArgs struct {
	ID           string
	State        lsftypes.LampState
	TransitionMS uint32
}

// EffectWithStateArgs is the {id, state, period, duration, num_pulses} call
// shape shared by the Pulse/Strobe/Cycle...WithState family.
type EffectWithStateArgs struct {
	ID         string
	State      lsftypes.LampState
	PeriodMS   uint32
	DurationMS uint32
	NumPulses  uint32
}

// EffectWithPresetArgs is the {id, preset_id, period, duration, num_pulses}
// call shape shared by the Pulse/Strobe/Cycle...WithPreset family.
type EffectWithPresetArgs struct {
	ID         string
	PresetID   string
	PeriodMS   uint32
	DurationMS uint32
	NumPulses  uint32
}

// TransitionToPresetArgs is the {id, preset_id, transition_period} call
// shape shared by TransitionLampStateToPreset and
// TransitionLampGroupStateToPreset.
type TransitionToPresetArgs struct {
	ID           string
	PresetID     string
	TransitionMS uint32
}
