// Package facade implements the Client Façade: five per-domain managers
// (Lamp, LampGroup, Preset, Scene, MasterScene) that translate typed
// application calls into Async Call Dispatcher dispatches and thread the
// matching reply/signal back to caller-supplied callbacks.
//
// Grounded on the teacher's pkg/services layer (one constructor-built
// struct per domain, typed request/response shapes) and pkg/api/handlers.go
// (thin sugar methods delegating to one generic call). Field-oriented
// mutation sugar and the SyncAll ID-list resync are grounded on
// original_source/standard_core_library/lighting_controller_client's
// LampGroupManager.h (see SPEC_FULL.md §9).
package facade

import "github.com/codeready-toolchain/lsf-controller/pkg/wire"

// The call-argument and reply shapes below are type aliases onto pkg/wire:
// the Controller Service side (pkg/controllerservice) decodes the very same
// concrete types off transport.MethodCall.Args, since the in-process bus
// carries args as `any` with no marshal step in between.
type (
	StateField           = wire.StateField
	idArgs               = wire.IDArgs
	idLangArgs           = wire.IDLangArgs
	idNameLangArgs       = wire.IDNameLangArgs
	createArgs[T any]    = wire.CreateArgs[T]
	updateArgs[T any]    = wire.UpdateArgs[T]
	getReply[T any]      = wire.GetReply[T]
	transitionFieldArgs  = wire.TransitionFieldArgs
	resetFieldArgs       = wire.ResetFieldArgs
	applyArgs            = wire.ApplyArgs
	ApplyReply           = wire.ApplyReply
	transitionStateArgs  = wire.TransitionStateArgs
	effectWithStateArgs  = wire.EffectWithStateArgs
	effectWithPresetArgs = wire.EffectWithPresetArgs
	transitionToPresetArgs = wire.TransitionToPresetArgs
)

const (
	FieldOnOff      = wire.FieldOnOff
	FieldHue        = wire.FieldHue
	FieldSaturation = wire.FieldSaturation
	FieldBrightness = wire.FieldBrightness
	FieldColorTemp  = wire.FieldColorTemp
)
