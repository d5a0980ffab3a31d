package facade

import (
	"context"

	"github.com/codeready-toolchain/lsf-controller/pkg/dispatch"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

// entityCRUD implements the method family spec.md §6 describes for "each
// entity type": GetAll<Type>IDs, Get/Set<Type>Name, Create<Type>,
// Update<Type>, Delete<Type>, Get<Type>, plus the four signals each mutation
// can produce. Parameterized over the entity's Go type and its fixed
// method-name prefix so LampGroupManager, PresetManager, SceneManager and
// MasterSceneManager can each embed one instead of repeating this surface.
type entityCRUD[T any] struct {
	d         *dispatch.Dispatcher
	prefix    string
	decodeGet dispatch.CustomDecodeFunc

	OnGetAllIDsReply func(code lsftypes.LSFResponseCode, ids []string)
	OnGetNameReply   func(code lsftypes.LSFResponseCode, id, language, name string)
	OnSetNameReply   func(code lsftypes.LSFResponseCode, id, language string)
	OnNameChanged    func(ids []string)
	OnCreateReply    func(code lsftypes.LSFResponseCode, id, trackingID string)
	OnCreated        func(ids []string)
	OnGetReply       func(code lsftypes.LSFResponseCode, id string, entity T)
	OnUpdateReply    func(code lsftypes.LSFResponseCode, id string)
	OnUpdated        func(ids []string)
	OnDeleteReply    func(code lsftypes.LSFResponseCode, id string)
	OnDeleted        func(ids []string)
}

// newEntityCRUD builds and binds an entityCRUD against d. decodeGet may be
// nil if the manager has no Get<Type> reply to decode.
func newEntityCRUD[T any](d *dispatch.Dispatcher, prefix string, decodeGet dispatch.CustomDecodeFunc) *entityCRUD[T] {
	c := &entityCRUD[T]{d: d, prefix: prefix, decodeGet: decodeGet}
	c.bind()
	return c
}

// bind registers the reply handlers for calls this manager itself issues.
// The *NameChanged/*Created/*Updated/*Deleted notifications are signals, not
// replies — the Facade's signal router delivers those via signalHandlers.
func (c *entityCRUD[T]) bind() {
	c.d.RegisterHandler("GetAll"+c.prefix+"IDs", dispatch.ShapeIDList, func(r any) {
		reply := r.(dispatch.IDListReply)
		if c.OnGetAllIDsReply != nil {
			c.OnGetAllIDsReply(reply.Code, reply.IDs)
		}
	})
	c.d.RegisterHandler("Get"+c.prefix+"Name", dispatch.ShapeIDLangName, func(r any) {
		reply := r.(dispatch.IDLangNameReply)
		if c.OnGetNameReply != nil {
			c.OnGetNameReply(reply.Code, reply.ID, reply.Language, reply.Name)
		}
	})
	c.d.RegisterHandler("Set"+c.prefix+"Name", dispatch.ShapeIDLangName, func(r any) {
		reply := r.(dispatch.IDLangNameReply)
		if c.OnSetNameReply != nil {
			c.OnSetNameReply(reply.Code, reply.ID, reply.Language)
		}
	})
	c.d.RegisterHandler("Create"+c.prefix, dispatch.ShapeIDTracking, func(r any) {
		reply := r.(dispatch.IDTrackingReply)
		if c.OnCreateReply != nil {
			c.OnCreateReply(reply.Code, reply.ID, reply.TrackingID)
		}
	})
	if c.decodeGet != nil {
		c.d.RegisterCustomHandler("Get"+c.prefix, c.decodeGet, func(r any) {
			reply, ok := r.(getReply[T])
			if ok && c.OnGetReply != nil {
				c.OnGetReply(reply.Code, reply.ID, reply.Entity)
			}
		})
	}
	c.d.RegisterHandler("Update"+c.prefix, dispatch.ShapeID, func(r any) {
		reply := r.(dispatch.IDReply)
		if c.OnUpdateReply != nil {
			c.OnUpdateReply(reply.Code, reply.ID)
		}
	})
	c.d.RegisterHandler("Delete"+c.prefix, dispatch.ShapeID, func(r any) {
		reply := r.(dispatch.IDReply)
		if c.OnDeleteReply != nil {
			c.OnDeleteReply(reply.Code, reply.ID)
		}
	})
}

// signalHandlers maps the four catalog-change signal names this entity type
// emits (see pkg/signal.Name) to the callback that should run for each.
func (c *entityCRUD[T]) signalHandlers() map[string]func([]string) {
	return map[string]func([]string){
		c.prefix + "sNameChanged": func(ids []string) {
			if c.OnNameChanged != nil {
				c.OnNameChanged(ids)
			}
		},
		c.prefix + "sCreated": func(ids []string) {
			if c.OnCreated != nil {
				c.OnCreated(ids)
			}
		},
		c.prefix + "sUpdated": func(ids []string) {
			if c.OnUpdated != nil {
				c.OnUpdated(ids)
			}
		},
		c.prefix + "sDeleted": func(ids []string) {
			if c.OnDeleted != nil {
				c.OnDeleted(ids)
			}
		},
	}
}

func (c *entityCRUD[T]) GetAllIDs(ctx context.Context) dispatch.Status {
	return c.d.Dispatch(ctx, "GetAll"+c.prefix+"IDs", nil)
}

func (c *entityCRUD[T]) GetName(ctx context.Context, id, language string) dispatch.Status {
	return c.d.Dispatch(ctx, "Get"+c.prefix+"Name", idLangArgs{ID: id, Language: language})
}

func (c *entityCRUD[T]) SetName(ctx context.Context, id, name, language string) dispatch.Status {
	return c.d.Dispatch(ctx, "Set"+c.prefix+"Name", idNameLangArgs{ID: id, Name: name, Language: language})
}

func (c *entityCRUD[T]) Create(ctx context.Context, fields T, name, language string) dispatch.Status {
	return c.d.Dispatch(ctx, "Create"+c.prefix, createArgs[T]{Fields: fields, Name: name, Language: language})
}

func (c *entityCRUD[T]) Get(ctx context.Context, id string) dispatch.Status {
	return c.d.Dispatch(ctx, "Get"+c.prefix, idArgs{ID: id})
}

func (c *entityCRUD[T]) Update(ctx context.Context, id string, fields T) dispatch.Status {
	return c.d.Dispatch(ctx, "Update"+c.prefix, updateArgs[T]{ID: id, Fields: fields})
}

func (c *entityCRUD[T]) Delete(ctx context.Context, id string) dispatch.Status {
	return c.d.Dispatch(ctx, "Delete"+c.prefix, idArgs{ID: id})
}
