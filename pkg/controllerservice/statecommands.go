package controllerservice

import (
	"context"
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/scene"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
	"github.com/codeready-toolchain/lsf-controller/pkg/wire"
)

// applyEffectsMethod mirrors pkg/scene's unexported constant of the same
// name: the lamp-pool call both the Scene Executor and this package's direct
// state/effect commands submit against a lamp's own queue.
const applyEffectsMethod = "ApplyEffects"

// registerStateCommandHandlers installs the Lamp and LampGroup state/effect
// command families (spec.md §6's "lamp-state calls" plus the lamp-group
// equivalents SPEC_FULL.md §4.7 adds). Each command resolves its target to a
// concrete lamp set (a single lamp, or a lamp group expanded by the
// Dependency Resolver), builds one Descriptor, and submits it per-lamp
// through the Lamp Session Pool — the same accept-time, fire-and-forget
// dispatch the Scene Executor uses for a Scene's components.
func (s *Service) registerStateCommandHandlers(busName string) {
	bus := s.bus

	// Single-lamp commands.
	bus.RegisterMethodHandler(busName, "TransitionLampState", s.stateHandler(false, lsftypes.EffectTransitionToState))
	bus.RegisterMethodHandler(busName, "TransitionLampStateField", s.fieldHandler(false))
	bus.RegisterMethodHandler(busName, "PulseLampWithState", s.effectHandler(false, lsftypes.EffectPulseWithState))
	bus.RegisterMethodHandler(busName, "PulseLampWithPreset", s.effectHandler(false, lsftypes.EffectPulseWithPreset))
	bus.RegisterMethodHandler(busName, "TransitionLampStateToPreset", s.stateToPresetHandler(false))
	bus.RegisterMethodHandler(busName, "ResetLampState", s.resetStateHandler(false))
	bus.RegisterMethodHandler(busName, "ResetLampStateField", s.resetFieldHandler(false))

	// Lamp-group commands: the same families plus Strobe/Cycle.
	bus.RegisterMethodHandler(busName, "TransitionLampGroupState", s.stateHandler(true, lsftypes.EffectTransitionToState))
	bus.RegisterMethodHandler(busName, "TransitionLampGroupStateField", s.fieldHandler(true))
	bus.RegisterMethodHandler(busName, "PulseLampGroupWithState", s.effectHandler(true, lsftypes.EffectPulseWithState))
	bus.RegisterMethodHandler(busName, "StrobeLampGroupWithState", s.effectHandler(true, lsftypes.EffectStrobeWithState))
	bus.RegisterMethodHandler(busName, "CycleLampGroupWithState", s.effectHandler(true, lsftypes.EffectCycleWithState))
	bus.RegisterMethodHandler(busName, "PulseLampGroupWithPreset", s.effectHandler(true, lsftypes.EffectPulseWithPreset))
	bus.RegisterMethodHandler(busName, "StrobeLampGroupWithPreset", s.effectHandler(true, lsftypes.EffectStrobeWithPreset))
	bus.RegisterMethodHandler(busName, "CycleLampGroupWithPreset", s.effectHandler(true, lsftypes.EffectCycleWithPreset))
	bus.RegisterMethodHandler(busName, "TransitionLampGroupStateToPreset", s.stateToPresetHandler(true))
	bus.RegisterMethodHandler(busName, "ResetLampGroupState", s.resetStateHandler(true))
	bus.RegisterMethodHandler(busName, "ResetLampGroupStateField", s.resetFieldHandler(true))
}

// targetLamps resolves id to the concrete lamp set a command addresses: the
// lamp itself, or (isGroup) the Dependency Resolver's transitive expansion
// of that group's membership.
func (s *Service) targetLamps(id string, isGroup bool) (map[string]struct{}, error) {
	if !isGroup {
		return map[string]struct{}{id: {}}, nil
	}
	return s.resolver.ExpandGroup(id)
}

// submitDescriptorFor compiles comp against target via the Scene Compiler's
// timing derivation (reusing its inline-state and preset-resolution path)
// and submits the result to every targeted lamp, accepting without waiting
// for completion.
func (s *Service) submitDescriptorFor(ctx context.Context, id string, isGroup bool, comp lsftypes.EffectComponent) error {
	lamps, err := s.targetLamps(id, isGroup)
	if err != nil {
		return err
	}
	comp.Target = lsftypes.EffectTarget{Lamps: lamps}
	sc := lsftypes.Scene{Components: []lsftypes.EffectComponent{comp}}
	perLamp, skipped, err := s.compiler.Compile(sc, time.Now())
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		return lsftypes.ErrDependency
	}
	for lampID, descriptors := range perLamp {
		if _, err := s.pool.SubmitAsync(ctx, lampID, applyEffectsMethod, scene.ApplyEffectsArgs{Descriptors: descriptors}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) stateHandler(isGroup bool, kind lsftypes.EffectKind) transport.MethodHandler {
	return func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("stateHandler")
		args, ok := call.Args.(wire.TransitionStateArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		comp := lsftypes.EffectComponent{Kind: kind, State: args.State, TransitionMS: args.TransitionMS}
		if err := s.submitDescriptorFor(ctx, args.ID, isGroup, comp); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		return reply(okPayload(map[string]any{"id": args.ID}))
	}
}

func (s *Service) effectHandler(isGroup bool, kind lsftypes.EffectKind) transport.MethodHandler {
	return func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("effectHandler")
		var comp lsftypes.EffectComponent
		var id string
		if kind.UsesPreset() {
			args, ok := call.Args.(wire.EffectWithPresetArgs)
			if !ok {
				return reply(errPayload(lsftypes.ErrInvalid, nil))
			}
			id = args.ID
			comp = lsftypes.EffectComponent{Kind: kind, PresetID: args.PresetID, PeriodMS: args.PeriodMS, DurationMS: args.DurationMS, NumPulses: args.NumPulses}
		} else {
			args, ok := call.Args.(wire.EffectWithStateArgs)
			if !ok {
				return reply(errPayload(lsftypes.ErrInvalid, nil))
			}
			id = args.ID
			comp = lsftypes.EffectComponent{Kind: kind, State: args.State, PeriodMS: args.PeriodMS, DurationMS: args.DurationMS, NumPulses: args.NumPulses}
		}
		if err := scene.ValidateComponent(comp); err != nil {
			return reply(errPayload(err, map[string]any{"id": id}))
		}
		if err := s.submitDescriptorFor(ctx, id, isGroup, comp); err != nil {
			return reply(errPayload(err, map[string]any{"id": id}))
		}
		return reply(okPayload(map[string]any{"id": id}))
	}
}

func (s *Service) stateToPresetHandler(isGroup bool) transport.MethodHandler {
	return func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("stateToPresetHandler")
		args, ok := call.Args.(wire.TransitionToPresetArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		comp := lsftypes.EffectComponent{Kind: lsftypes.EffectTransitionToPreset, PresetID: args.PresetID, TransitionMS: args.TransitionMS}
		if err := s.submitDescriptorFor(ctx, args.ID, isGroup, comp); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		return reply(okPayload(map[string]any{"id": args.ID}))
	}
}

func (s *Service) resetStateHandler(isGroup bool) transport.MethodHandler {
	return func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("resetStateHandler")
		args, ok := call.Args.(wire.IDArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		comp := lsftypes.EffectComponent{Kind: lsftypes.EffectTransitionToPreset, PresetID: lsftypes.DefaultPresetID}
		if err := s.submitDescriptorFor(ctx, args.ID, isGroup, comp); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		return reply(okPayload(map[string]any{"id": args.ID}))
	}
}

// fieldHandler implements the generic TransitionField mutation: it builds a
// Descriptor with a mask authoritative for only the named field, bypassing
// the Compiler's full-mask inline-state path since a field-oriented mutation
// must leave every other field untouched on the target lamp(s).
func (s *Service) fieldHandler(isGroup bool) transport.MethodHandler {
	return func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("fieldHandler")
		args, ok := call.Args.(wire.TransitionFieldArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		state, mask, err := fieldState(args.Field, args.Value)
		if err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		if err := s.submitFieldDescriptor(ctx, args.ID, isGroup, state, mask, args.TransitionMS); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		return reply(okPayload(map[string]any{"id": args.ID}))
	}
}

// resetFieldHandler resets a single field to the boot/default preset's value
// for that field, leaving every other field on the target lamp(s) untouched.
func (s *Service) resetFieldHandler(isGroup bool) transport.MethodHandler {
	return func(ctx context.Context, call transport.MethodCall) transport.MethodReply {
		defer logHandlerPanic("resetFieldHandler")
		args, ok := call.Args.(wire.ResetFieldArgs)
		if !ok {
			return reply(errPayload(lsftypes.ErrInvalid, nil))
		}
		def, found := s.catalog.Presets.Get(lsftypes.DefaultPresetID)
		if !found {
			return reply(errPayload(lsftypes.ErrNotFound, map[string]any{"id": args.ID}))
		}
		value := fieldValue(args.Field, def.State)
		state, mask, err := fieldState(args.Field, value)
		if err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		if err := s.submitFieldDescriptor(ctx, args.ID, isGroup, state, mask, 0); err != nil {
			return reply(errPayload(err, map[string]any{"id": args.ID}))
		}
		return reply(okPayload(map[string]any{"id": args.ID}))
	}
}

func (s *Service) submitFieldDescriptor(ctx context.Context, id string, isGroup bool, state lsftypes.LampState, mask lsftypes.StateFieldMask, transitionMS uint32) error {
	lamps, err := s.targetLamps(id, isGroup)
	if err != nil {
		return err
	}
	desc := scene.Descriptor{
		Kind:         lsftypes.EffectTransitionToState,
		State:        state,
		Mask:         mask,
		TransitionMS: transitionMS,
		StartAt:      time.Now(),
	}
	for lampID := range lamps {
		if _, err := s.pool.SubmitAsync(ctx, lampID, applyEffectsMethod, scene.ApplyEffectsArgs{Descriptors: []scene.Descriptor{desc}}); err != nil {
			return err
		}
	}
	return nil
}

// fieldState builds the single-field LampState/StateFieldMask pair a
// field-oriented mutation submits. value must be bool for FieldOnOff and
// uint32 for every other field.
func fieldState(field wire.StateField, value any) (lsftypes.LampState, lsftypes.StateFieldMask, error) {
	var state lsftypes.LampState
	var mask lsftypes.StateFieldMask
	switch field {
	case wire.FieldOnOff:
		v, ok := value.(bool)
		if !ok {
			return state, mask, lsftypes.ErrInvalid
		}
		state.OnOff = v
		mask.OnOff = true
	case wire.FieldHue:
		v, ok := value.(uint32)
		if !ok {
			return state, mask, lsftypes.ErrInvalid
		}
		state.Hue = v
		mask.Hue = true
	case wire.FieldSaturation:
		v, ok := value.(uint32)
		if !ok {
			return state, mask, lsftypes.ErrInvalid
		}
		state.Saturation = v
		mask.Saturation = true
	case wire.FieldBrightness:
		v, ok := value.(uint32)
		if !ok {
			return state, mask, lsftypes.ErrInvalid
		}
		state.Brightness = v
		mask.Brightness = true
	case wire.FieldColorTemp:
		v, ok := value.(uint32)
		if !ok {
			return state, mask, lsftypes.ErrInvalid
		}
		state.ColorTemp = v
		mask.ColorTemp = true
	default:
		return state, mask, lsftypes.ErrInvalid
	}
	return state, mask, nil
}

// fieldValue extracts field's current value from state, boxed as the same
// dynamic type fieldState expects back.
func fieldValue(field wire.StateField, state lsftypes.LampState) any {
	switch field {
	case wire.FieldOnOff:
		return state.OnOff
	case wire.FieldHue:
		return state.Hue
	case wire.FieldSaturation:
		return state.Saturation
	case wire.FieldBrightness:
		return state.Brightness
	case wire.FieldColorTemp:
		return state.ColorTemp
	default:
		return nil
	}
}
