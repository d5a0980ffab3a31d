// Package cleanup implements the lamp grace-window eviction sweep: a lamp
// that has sat in the Lamp Session Pool's LOST state longer than the
// configured grace window is dropped from both the pool and the catalog,
// since it is presumed gone rather than merely slow to rejoin.
//
// Grounded on the teacher's pkg/cleanup.Service (ticker-driven background
// loop with Start/Stop and a graceful-drain done channel), repurposed from
// session/event retention to lamp presence.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeready-toolchain/lsf-controller/pkg/catalog"
	"github.com/codeready-toolchain/lsf-controller/pkg/lamppool"
)

// Service periodically evicts lamps that have been LOST past GraceWindow.
type Service struct {
	catalog     *catalog.Catalog
	pool        *lamppool.Pool
	graceWindow time.Duration
	interval    time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService constructs a Service bound to c and p.
func NewService(c *catalog.Catalog, p *lamppool.Pool, graceWindow, interval time.Duration) *Service {
	return &Service{
		catalog:     c,
		pool:        p,
		graceWindow: graceWindow,
		interval:    interval,
	}
}

// Start launches the background eviction loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("cleanup: lamp eviction sweep started",
		"grace_window", s.graceWindow, "interval", s.interval)
}

// Stop signals the eviction loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("cleanup: lamp eviction sweep stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep evicts every pool actor that has been LOST for at least
// graceWindow, forgetting it in both the pool and the lamp catalog.
func (s *Service) sweep() {
	now := time.Now()
	evicted := 0
	for id, status := range s.pool.Snapshot() {
		if status.State != lamppool.StateLost {
			continue
		}
		if now.Sub(status.LostSince) < s.graceWindow {
			continue
		}
		s.pool.Remove(id)
		if _, ok := s.catalog.RemoveLamp(id); ok {
			evicted++
		}
	}
	if evicted > 0 {
		slog.Info("cleanup: evicted lamps past grace window", "count", evicted)
	}
}
