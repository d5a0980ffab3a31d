package facade

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/dispatch"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

func decodeMasterSceneReply(payload map[string]any) (any, error) {
	code, _ := payload["response_code"].(lsftypes.LSFResponseCode)
	id, _ := payload["id"].(string)
	ms, _ := payload["master_scene"].(lsftypes.MasterScene)
	return getReply[lsftypes.MasterScene]{Code: code, ID: id, Entity: ms}, nil
}

// MasterSceneManager presents the master-scene entity CRUD family plus
// ApplyMasterScene.
type MasterSceneManager struct {
	*entityCRUD[lsftypes.MasterScene]
	d *dispatch.Dispatcher

	OnApplyMasterSceneReply func(code lsftypes.LSFResponseCode, id string)
	OnMasterScenesApplied   func(ids []string)
}

// NewMasterSceneManager builds and binds a MasterSceneManager against d.
func NewMasterSceneManager(d *dispatch.Dispatcher) *MasterSceneManager {
	m := &MasterSceneManager{entityCRUD: newEntityCRUD[lsftypes.MasterScene](d, "MasterScene", decodeMasterSceneReply), d: d}
	d.RegisterHandler("ApplyMasterScene", dispatch.ShapeID, func(r any) {
		reply := r.(dispatch.IDReply)
		if m.OnApplyMasterSceneReply != nil {
			m.OnApplyMasterSceneReply(reply.Code, reply.ID)
		}
	})
	return m
}

func (m *MasterSceneManager) ApplyMasterScene(ctx context.Context, id string) dispatch.Status {
	return m.d.Dispatch(ctx, "ApplyMasterScene", applyArgs{ID: id})
}

func (m *MasterSceneManager) signalHandler() (string, func(payload map[string]any)) {
	return "MasterSceneApplied", func(p map[string]any) {
		if m.OnMasterScenesApplied == nil {
			return
		}
		if id, ok := p["master_id"].(string); ok {
			m.OnMasterScenesApplied([]string{id})
		}
	}
}
