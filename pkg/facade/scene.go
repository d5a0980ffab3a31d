package facade

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/dispatch"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

func decodeSceneReply(payload map[string]any) (any, error) {
	code, _ := payload["response_code"].(lsftypes.LSFResponseCode)
	id, _ := payload["id"].(string)
	sc, _ := payload["scene"].(lsftypes.Scene)
	return getReply[lsftypes.Scene]{Code: code, ID: id, Entity: sc}, nil
}

// SceneManager presents the scene entity CRUD family plus ApplyScene.
type SceneManager struct {
	*entityCRUD[lsftypes.Scene]
	d *dispatch.Dispatcher

	OnApplySceneReply func(code lsftypes.LSFResponseCode, id string)
	OnScenesApplied   func(ids []string)
}

// NewSceneManager builds and binds a SceneManager against d.
func NewSceneManager(d *dispatch.Dispatcher) *SceneManager {
	m := &SceneManager{entityCRUD: newEntityCRUD[lsftypes.Scene](d, "Scene", decodeSceneReply), d: d}
	d.RegisterHandler("ApplyScene", dispatch.ShapeID, func(r any) {
		reply := r.(dispatch.IDReply)
		if m.OnApplySceneReply != nil {
			m.OnApplySceneReply(reply.Code, reply.ID)
		}
	})
	return m
}

// ApplyScene issues the apply call; OnApplySceneReply fires once the
// Scene Executor has accepted every per-lamp submission, OnScenesApplied
// fires from the signal the broadcaster emits at the same moment.
func (m *SceneManager) ApplyScene(ctx context.Context, id string) dispatch.Status {
	return m.d.Dispatch(ctx, "ApplyScene", applyArgs{ID: id})
}

func (m *SceneManager) signalHandler() (string, func(payload map[string]any)) {
	return "SceneApplied", func(p map[string]any) {
		if m.OnScenesApplied == nil {
			return
		}
		if id, ok := p["scene_id"].(string); ok {
			m.OnScenesApplied([]string{id})
		}
	}
}
