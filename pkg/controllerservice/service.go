// Package controllerservice implements the server side of the Controller
// Service: it registers the method-handler family spec.md §6 describes on a
// transport.Bus, routing each call into the Entity Catalog, Dependency
// Resolver, Scene Compiler/Executor, and Lamp Session Pool, and emitting the
// matching Signal Broadcaster notifications.
//
// Grounded on the teacher's pkg/api/handlers.go (one thin handler per route,
// delegating straight into a service) and pkg/services (domain-owning
// structs this package wires together); the decode-by-concrete-type step
// every handler starts with is grounded on pkg/mcp/router.go's method-name
// dispatch table.
package controllerservice

import (
	"log/slog"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/depgraph"
	"github.com/codeready-toolchain/lsf-controller/pkg/lamppool"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/scene"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
)

// Service wires the Controller Service's domain collaborators to a
// transport.Bus. One Service instance backs one bus identity (one leader
// election participant).
type Service struct {
	catalog     *catalog.Catalog
	resolver    *depgraph.Resolver
	compiler    *scene.Compiler
	executor    *scene.Executor
	pool        *lamppool.Pool
	broadcaster *signal.Broadcaster
	bus         transport.Bus
}

// New builds a Service from its collaborators. Callers construct the
// catalog, resolver, compiler, executor, pool, and broadcaster themselves
// (cmd/controllerd does this) since several of them depend on each other's
// constructors.
func New(c *catalog.Catalog, r *depgraph.Resolver, compiler *scene.Compiler, executor *scene.Executor, pool *lamppool.Pool, b *signal.Broadcaster, bus transport.Bus) *Service {
	return &Service{
		catalog:     c,
		resolver:    r,
		compiler:    compiler,
		executor:    executor,
		pool:        pool,
		broadcaster: b,
		bus:         bus,
	}
}

// RegisterAll installs every Controller Service method handler on busName.
func (s *Service) RegisterAll(busName string) {
	s.registerGroupHandlers(busName)
	s.registerPresetHandlers(busName)
	s.registerSceneHandlers(busName)
	s.registerMasterSceneHandlers(busName)
	s.registerLampHandlers(busName)
	s.registerStateCommandHandlers(busName)
}

// reply builds a transport.MethodReply carrying payload as the wire-shaped
// map[string]any pkg/dispatch's decoders expect. Handlers never return a Go
// error here: lsftypes.CodeOf(err) has already been folded into
// payload["response_code"] by the time reply is called, per SPEC_FULL.md's
// "errors translated only at the transport-encoding boundary" rule.
func reply(payload map[string]any) transport.MethodReply {
	return transport.MethodReply{Args: payload}
}

func errPayload(err error, extra map[string]any) map[string]any {
	p := map[string]any{"response_code": lsftypes.CodeOf(err)}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func okPayload(extra map[string]any) map[string]any {
	p := map[string]any{"response_code": lsftypes.LSFOk}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func logHandlerPanic(method string) {
	if r := recover(); r != nil {
		slog.Error("controllerservice: handler panic", "method", method, "recover", r)
	}
}
