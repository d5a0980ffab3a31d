package facade

import (
	"github.com/codeready-toolchain/lsf-controller/pkg/dispatch"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

func decodePresetReply(payload map[string]any) (any, error) {
	code, _ := payload["response_code"].(lsftypes.LSFResponseCode)
	id, _ := payload["id"].(string)
	preset, _ := payload["preset"].(lsftypes.Preset)
	return getReply[lsftypes.Preset]{Code: code, ID: id, Entity: preset}, nil
}

// PresetManager presents the preset entity CRUD family. Presets carry no
// state-transition commands of their own — they are referenced by lamp and
// lamp-group state calls and by Scene components.
type PresetManager struct {
	*entityCRUD[lsftypes.Preset]
}

// NewPresetManager builds and binds a PresetManager against d.
func NewPresetManager(d *dispatch.Dispatcher) *PresetManager {
	return &PresetManager{entityCRUD: newEntityCRUD[lsftypes.Preset](d, "Preset", decodePresetReply)}
}
