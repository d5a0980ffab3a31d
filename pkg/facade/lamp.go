package facade

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/dispatch"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

func decodeLampReply(payload map[string]any) (any, error) {
	code, _ := payload["response_code"].(lsftypes.LSFResponseCode)
	id, _ := payload["id"].(string)
	lamp, _ := payload["lamp"].(lsftypes.Lamp)
	return getReply[lsftypes.Lamp]{Code: code, ID: id, Entity: lamp}, nil
}

func decodeLampStateReply(payload map[string]any) (any, error) {
	code, _ := payload["response_code"].(lsftypes.LSFResponseCode)
	id, _ := payload["id"].(string)
	state, _ := payload["state"].(lsftypes.LampState)
	return getReply[lsftypes.LampState]{Code: code, ID: id, Entity: state}, nil
}

func decodeLampFaultsReply(payload map[string]any) (any, error) {
	code, _ := payload["response_code"].(lsftypes.LSFResponseCode)
	id, _ := payload["id"].(string)
	faults, _ := payload["fault_codes"].([]uint32)
	return getReply[[]uint32]{Code: code, ID: id, Entity: faults}, nil
}

// LampManager presents the lamp-specific surface of the client façade: the
// name-only entity surface every lamp has (lamps are discovered, never
// created or deleted), plus the full lamp-state command set.
type LampManager struct {
	d *dispatch.Dispatcher

	OnGetAllLampIDsReply func(code lsftypes.LSFResponseCode, ids []string)
	OnGetLampNameReply   func(code lsftypes.LSFResponseCode, id, language, name string)
	OnSetLampNameReply   func(code lsftypes.LSFResponseCode, id, language string)
	OnLampsNameChanged   func(ids []string)
	OnGetLampReply       func(code lsftypes.LSFResponseCode, id string, lamp lsftypes.Lamp)
	OnGetLampStateReply  func(code lsftypes.LSFResponseCode, id string, state lsftypes.LampState)
	OnGetLampFaultsReply func(code lsftypes.LSFResponseCode, id string, faultCodes []uint32)
	OnLampStateChanged   func(lampID string, state lsftypes.LampState)

	OnTransitionLampStateReply        func(code lsftypes.LSFResponseCode, id string)
	OnTransitionLampStateFieldReply   func(code lsftypes.LSFResponseCode, id string)
	OnPulseLampWithStateReply         func(code lsftypes.LSFResponseCode, id string)
	OnPulseLampWithPresetReply        func(code lsftypes.LSFResponseCode, id string)
	OnTransitionLampStateToPresetReply func(code lsftypes.LSFResponseCode, id string)
	OnResetLampStateReply             func(code lsftypes.LSFResponseCode, id string)
	OnResetLampStateFieldReply        func(code lsftypes.LSFResponseCode, id string)

	OnDefaultLampStateChanged            func()
	OnControllerServiceLightingReset     func()
}

// NewLampManager builds and binds a LampManager against d.
func NewLampManager(d *dispatch.Dispatcher) *LampManager {
	m := &LampManager{d: d}
	m.bind()
	return m
}

func (m *LampManager) bind() {
	m.d.RegisterHandler("GetAllLampIDs", dispatch.ShapeIDList, func(r any) {
		reply := r.(dispatch.IDListReply)
		if m.OnGetAllLampIDsReply != nil {
			m.OnGetAllLampIDsReply(reply.Code, reply.IDs)
		}
	})
	m.d.RegisterHandler("GetLampName", dispatch.ShapeIDLangName, func(r any) {
		reply := r.(dispatch.IDLangNameReply)
		if m.OnGetLampNameReply != nil {
			m.OnGetLampNameReply(reply.Code, reply.ID, reply.Language, reply.Name)
		}
	})
	m.d.RegisterHandler("SetLampName", dispatch.ShapeIDLangName, func(r any) {
		reply := r.(dispatch.IDLangNameReply)
		if m.OnSetLampNameReply != nil {
			m.OnSetLampNameReply(reply.Code, reply.ID, reply.Language)
		}
	})
	m.d.RegisterCustomHandler("GetLamp", decodeLampReply, func(r any) {
		reply := r.(getReply[lsftypes.Lamp])
		if m.OnGetLampReply != nil {
			m.OnGetLampReply(reply.Code, reply.ID, reply.Entity)
		}
	})
	m.d.RegisterCustomHandler("GetLampState", decodeLampStateReply, func(r any) {
		reply := r.(getReply[lsftypes.LampState])
		if m.OnGetLampStateReply != nil {
			m.OnGetLampStateReply(reply.Code, reply.ID, reply.Entity)
		}
	})
	m.d.RegisterCustomHandler("GetLampFaults", decodeLampFaultsReply, func(r any) {
		reply := r.(getReply[[]uint32])
		if m.OnGetLampFaultsReply != nil {
			m.OnGetLampFaultsReply(reply.Code, reply.ID, reply.Entity)
		}
	})
	idReplyHandler := func(target *func(code lsftypes.LSFResponseCode, id string)) dispatch.ReplyHandler {
		return func(r any) {
			reply := r.(dispatch.IDReply)
			if *target != nil {
				(*target)(reply.Code, reply.ID)
			}
		}
	}
	m.d.RegisterHandler("TransitionLampState", dispatch.ShapeID, idReplyHandler(&m.OnTransitionLampStateReply))
	m.d.RegisterHandler("TransitionLampStateField", dispatch.ShapeID, idReplyHandler(&m.OnTransitionLampStateFieldReply))
	m.d.RegisterHandler("PulseLampWithState", dispatch.ShapeID, idReplyHandler(&m.OnPulseLampWithStateReply))
	m.d.RegisterHandler("PulseLampWithPreset", dispatch.ShapeID, idReplyHandler(&m.OnPulseLampWithPresetReply))
	m.d.RegisterHandler("TransitionLampStateToPreset", dispatch.ShapeID, idReplyHandler(&m.OnTransitionLampStateToPresetReply))
	m.d.RegisterHandler("ResetLampState", dispatch.ShapeID, idReplyHandler(&m.OnResetLampStateReply))
	m.d.RegisterHandler("ResetLampStateField", dispatch.ShapeID, idReplyHandler(&m.OnResetLampStateFieldReply))
}

// signalHandlers maps every signal name pkg/signal emits that touches lamps
// (as opposed to replies to calls this manager itself issues) to the
// callback that should run for each. Used by the Facade's signal router.
func (m *LampManager) signalHandlers() map[string]func(payload map[string]any) {
	return map[string]func(payload map[string]any){
		"LampsNameChanged": func(p map[string]any) {
			if m.OnLampsNameChanged != nil {
				m.OnLampsNameChanged(stringSlice(p["ids"]))
			}
		},
		"LampStateChanged": func(p map[string]any) {
			if m.OnLampStateChanged != nil {
				lampID, _ := p["lamp_id"].(string)
				state, _ := p["state"].(lsftypes.LampState)
				m.OnLampStateChanged(lampID, state)
			}
		},
		"DefaultLampStateChanged": func(map[string]any) {
			if m.OnDefaultLampStateChanged != nil {
				m.OnDefaultLampStateChanged()
			}
		},
		"ControllerServiceLightingReset": func(map[string]any) {
			if m.OnControllerServiceLightingReset != nil {
				m.OnControllerServiceLightingReset()
			}
		},
	}
}

func (m *LampManager) GetAllLampIDs(ctx context.Context) dispatch.Status {
	return m.d.Dispatch(ctx, "GetAllLampIDs", nil)
}

func (m *LampManager) GetLampName(ctx context.Context, id, language string) dispatch.Status {
	return m.d.Dispatch(ctx, "GetLampName", idLangArgs{ID: id, Language: language})
}

func (m *LampManager) SetLampName(ctx context.Context, id, name, language string) dispatch.Status {
	return m.d.Dispatch(ctx, "SetLampName", idNameLangArgs{ID: id, Name: name, Language: language})
}

func (m *LampManager) GetLamp(ctx context.Context, id string) dispatch.Status {
	return m.d.Dispatch(ctx, "GetLamp", idArgs{ID: id})
}

func (m *LampManager) GetLampState(ctx context.Context, id string) dispatch.Status {
	return m.d.Dispatch(ctx, "GetLampState", idArgs{ID: id})
}

func (m *LampManager) GetLampFaults(ctx context.Context, id string) dispatch.Status {
	return m.d.Dispatch(ctx, "GetLampFaults", idArgs{ID: id})
}

func (m *LampManager) TransitionLampState(ctx context.Context, id string, state lsftypes.LampState, transitionMS uint32) dispatch.Status {
	return m.d.Dispatch(ctx, "TransitionLampState", transitionStateArgs{ID: id, State: state, TransitionMS: transitionMS})
}

// TransitionField is the generic field-oriented mutation spec.md §4.7
// describes; TransitionLampStateOnOffField etc. are all sugar over this.
func (m *LampManager) TransitionField(ctx context.Context, id string, field StateField, value any, transitionMS uint32) dispatch.Status {
	return m.d.Dispatch(ctx, "TransitionLampStateField", transitionFieldArgs{ID: id, Field: field, Value: value, TransitionMS: transitionMS})
}

func (m *LampManager) TransitionLampStateOnOffField(ctx context.Context, id string, value bool, transitionMS uint32) dispatch.Status {
	return m.TransitionField(ctx, id, FieldOnOff, value, transitionMS)
}

func (m *LampManager) TransitionLampStateHueField(ctx context.Context, id string, value uint32, transitionMS uint32) dispatch.Status {
	return m.TransitionField(ctx, id, FieldHue, value, transitionMS)
}

func (m *LampManager) TransitionLampStateSaturationField(ctx context.Context, id string, value uint32, transitionMS uint32) dispatch.Status {
	return m.TransitionField(ctx, id, FieldSaturation, value, transitionMS)
}

func (m *LampManager) TransitionLampStateBrightnessField(ctx context.Context, id string, value uint32, transitionMS uint32) dispatch.Status {
	return m.TransitionField(ctx, id, FieldBrightness, value, transitionMS)
}

func (m *LampManager) TransitionLampStateColorTempField(ctx context.Context, id string, value uint32, transitionMS uint32) dispatch.Status {
	return m.TransitionField(ctx, id, FieldColorTemp, value, transitionMS)
}

func (m *LampManager) PulseLampWithState(ctx context.Context, id string, state lsftypes.LampState, periodMS, durationMS, numPulses uint32) dispatch.Status {
	return m.d.Dispatch(ctx, "PulseLampWithState", effectWithStateArgs{ID: id, State: state, PeriodMS: periodMS, DurationMS: durationMS, NumPulses: numPulses})
}

func (m *LampManager) PulseLampWithPreset(ctx context.Context, id, presetID string, periodMS, durationMS, numPulses uint32) dispatch.Status {
	return m.d.Dispatch(ctx, "PulseLampWithPreset", effectWithPresetArgs{ID: id, PresetID: presetID, PeriodMS: periodMS, DurationMS: durationMS, NumPulses: numPulses})
}

func (m *LampManager) TransitionLampStateToPreset(ctx context.Context, id, presetID string, transitionMS uint32) dispatch.Status {
	return m.d.Dispatch(ctx, "TransitionLampStateToPreset", transitionToPresetArgs{ID: id, PresetID: presetID, TransitionMS: transitionMS})
}

func (m *LampManager) ResetLampState(ctx context.Context, id string) dispatch.Status {
	return m.d.Dispatch(ctx, "ResetLampState", idArgs{ID: id})
}

func (m *LampManager) ResetLampStateField(ctx context.Context, id string, field StateField) dispatch.Status {
	return m.d.Dispatch(ctx, "ResetLampStateField", resetFieldArgs{ID: id, Field: field})
}
