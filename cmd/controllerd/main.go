// Command controllerd runs the Controller Service tier described in
// SPEC_FULL.md §1: the entity catalog, dependency resolver, scene
// compiler/executor, lamp session pool, and signal broadcaster, wired to an
// in-process transport.Bus and fronted by a gin HTTP control surface.
//
// For demonstration purposes this process also runs one in-process
// Controller Client (pkg/leader + pkg/dispatch + pkg/facade), joined to
// itself over the same bus, and a lamp simulator standing in for the
// physical lamp devices the specification places out of scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	osignal "os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/cleanup"
	"github.com/codeready-toolchain/lsf-controller/pkg/config"
	"github.com/codeready-toolchain/lsf-controller/pkg/controllerservice"
	"github.com/codeready-toolchain/lsf-controller/pkg/depgraph"
	"github.com/codeready-toolchain/lsf-controller/pkg/dispatch"
	"github.com/codeready-toolchain/lsf-controller/pkg/facade"
	"github.com/codeready-toolchain/lsf-controller/pkg/lamppool"
	"github.com/codeready-toolchain/lsf-controller/pkg/leader"
	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
	"github.com/codeready-toolchain/lsf-controller/pkg/scene"
	"github.com/codeready-toolchain/lsf-controller/pkg/signal"
	"github.com/codeready-toolchain/lsf-controller/pkg/transport"
	"github.com/codeready-toolchain/lsf-controller/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	gin.SetMode(getEnv("GIN_MODE", "release"))

	ctx, stop := osignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	log.Printf("starting %s device_id=%s bus_name=%s http_addr=%s", version.Full(), cfg.Device.ID, cfg.Device.BusName, cfg.HTTP.Addr)

	app := build(cfg)
	app.cleanupSvc.Start(ctx)
	defer app.cleanupSvc.Stop()

	go app.announceLoop(ctx)
	app.tracker.Start()
	defer app.tracker.Stop()

	router := newRouter(app)
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// application bundles every long-lived collaborator main wires together.
type application struct {
	cfg         *config.Config
	bus         transport.Bus
	catalog     *catalog.Catalog
	resolver    *depgraph.Resolver
	pool        *lamppool.Pool
	broadcaster *signal.Broadcaster
	executor    *scene.Executor
	cleanupSvc  *cleanup.Service
	tracker     *leader.Tracker
	facade      *facade.Facade
}

func build(cfg *config.Config) *application {
	catalog.MaxEntitiesPerType = cfg.Catalog.MaxEntitiesPerType

	bus := transport.NewMemoryBus()
	cat := catalog.New(lsftypes.LampState{})
	resolver := depgraph.New(cat)
	compiler := scene.NewCompiler(cat, resolver)
	broadcaster := signal.NewBroadcaster(bus)

	sim := newLampSimulator(cat, broadcaster)
	pool := lamppool.New(sim.call)
	pool.SetBackoff(cfg.LampPool.Backoff)
	seedDemoLamps(cat, pool)

	executor := scene.NewExecutor(cat, compiler, pool, broadcaster)

	svc := controllerservice.New(cat, resolver, compiler, executor, pool, broadcaster, bus)
	svc.RegisterAll(cfg.Device.BusName)

	cleanupSvc := cleanup.NewService(cat, pool, cfg.Cleanup.GraceWindow, cfg.Cleanup.Interval)

	d := dispatch.New(bus, func(e dispatch.ControllerClientError) {
		slog.Warn("controllerd: client dispatch error", "codes", e.ErrorCodeList)
	})
	d.SetTimeout(cfg.Dispatch.CallTimeout)
	f := facade.New(d, bus)
	events := &brokerEvents{Facade: f, broadcaster: broadcaster}
	tracker := leader.New(bus, events, introspectorFor(bus))
	tracker.SetIgnoreBounds(cfg.Leader.IgnoreCap, cfg.Leader.IgnoreTTL)
	f.Bind(tracker)
	events.tracker = tracker

	return &application{
		cfg:         cfg,
		bus:         bus,
		catalog:     cat,
		resolver:    resolver,
		pool:        pool,
		broadcaster: broadcaster,
		executor:    executor,
		cleanupSvc:  cleanupSvc,
		tracker:     tracker,
		facade:      f,
	}
}

// introspectorFor builds the leader.Introspector the original source's
// ControllerClient.cc performs on join: fetch the set of method names the
// newly-joined leader advertises before issuing any call against it.
// Buses that don't support transport.MethodLister (the real discovery/RPC
// substrate this bundled demo stands in for may not) skip introspection
// entirely rather than fail the join.
func introspectorFor(bus transport.Bus) leader.Introspector {
	lister, ok := bus.(transport.MethodLister)
	if !ok {
		return nil
	}
	return func(_ context.Context, sessionID string) error {
		methods, ok := lister.RegisteredMethods(sessionID)
		if !ok {
			return fmt.Errorf("controllerd: introspect: session %s not found", sessionID)
		}
		slog.Debug("controllerd: introspected leader methods", "session_id", sessionID, "method_count", len(methods))
		return nil
	}
}

// seedDemoLamps populates the catalog and pool with a handful of lamps so
// the bundled demo has something to apply scenes to; a real deployment
// would instead learn of lamps through the device-discovery transport.
func seedDemoLamps(c *catalog.Catalog, p *lamppool.Pool) {
	demo := []struct {
		id, name string
	}{
		{"lamp-living-room", "Living Room"},
		{"lamp-kitchen", "Kitchen"},
		{"lamp-hallway", "Hallway"},
	}
	for _, d := range demo {
		c.AddLamp(lsftypes.Lamp{
			ID:    d.id,
			Names: lsftypes.Names{"en": d.name},
		})
		p.Discover(d.id)
	}
}

// brokerEvents wraps the Client Façade's own leader.Events implementation so
// the in-process demo client's session also gets registered with the
// Signal Broadcaster, which otherwise has no way to learn about a session a
// client joined directly against the bus. A real multi-process deployment
// would instead have each Controller Service learn of joined sessions
// through its own transport implementation; this bundled demo runs both
// tiers in one process; so the wiring happens here instead.
type brokerEvents struct {
	*facade.Facade
	broadcaster *signal.Broadcaster
	tracker     *leader.Tracker
}

func (b *brokerEvents) ConnectedToControllerService(deviceID string) {
	if current, ok := b.tracker.Current(); ok && current.Attached() {
		b.broadcaster.AddSession(current.SessionID)
	}
	b.Facade.ConnectedToControllerService(deviceID)
}

func (b *brokerEvents) DisconnectedFromControllerService() {
	if current, ok := b.tracker.Current(); ok {
		b.broadcaster.RemoveSession(current.SessionID)
	}
	b.Facade.DisconnectedFromControllerService()
}

// announceLoop periodically advertises this process as a Controller Service
// with IsLeader true: the bundled demo runs exactly one instance, so it is
// always its own leader.
func (a *application) announceLoop(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	ann := transport.Announcement{
		BusName:    a.cfg.Device.BusName,
		DeviceID:   a.cfg.Device.ID,
		DeviceName: a.cfg.Device.Name,
		Rank:       a.cfg.Device.Rank,
		Port:       a.cfg.Device.Port,
		IsLeader:   true,
	}

	_ = a.bus.Announce(ctx, ann)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = a.bus.Announce(ctx, ann)
		}
	}
}

// lampSimulator stands in for a physical lamp: it fulfils ApplyEffects calls
// by writing each descriptor's masked state fields straight into the
// catalog and emitting LampStateChanged, skipping the animation timing
// (pulse/strobe/cycle cadence) a real device would perform.
type lampSimulator struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	bcast   *signal.Broadcaster
}

func newLampSimulator(c *catalog.Catalog, b *signal.Broadcaster) *lampSimulator {
	return &lampSimulator{catalog: c, bcast: b}
}

func (s *lampSimulator) call(ctx context.Context, lampID, method string, args any) error {
	if method != "ApplyEffects" {
		return fmt.Errorf("lampsim: unsupported method %q", method)
	}
	applyArgs, ok := args.(scene.ApplyEffectsArgs)
	if !ok {
		return fmt.Errorf("lampsim: unexpected args type %T", args)
	}

	s.mu.Lock()
	lamp, found := s.catalog.Lamps.Get(lampID)
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("lampsim: unknown lamp %s", lampID)
	}
	for _, d := range applyArgs.Descriptors {
		applyMask(&lamp.State, d.State, d.Mask)
	}
	_ = s.catalog.Lamps.Update(lampID, lamp)
	s.mu.Unlock()

	s.bcast.LampStateChanged(ctx, lampID, lamp.State)
	return nil
}

func applyMask(dst *lsftypes.LampState, src lsftypes.LampState, mask lsftypes.StateFieldMask) {
	if mask.OnOff {
		dst.OnOff = src.OnOff
	}
	if mask.Hue {
		dst.Hue = src.Hue
	}
	if mask.Saturation {
		dst.Saturation = src.Saturation
	}
	if mask.ColorTemp {
		dst.ColorTemp = src.ColorTemp
	}
	if mask.Brightness {
		dst.Brightness = src.Brightness
	}
}
