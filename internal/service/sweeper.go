package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// Sweeper periodically evicts expired proposals and delivery records
type Sweeper struct {
	proposals repo.ProposalStore
	guard     repo.DeliveryGuard

	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSweeper creates a new sweeper
func NewSweeper(proposals repo.ProposalStore, guard repo.DeliveryGuard, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		proposals: proposals,
		guard:     guard,
		interval:  interval,
	}
}

// Start starts the sweep loop
func (s *Sweeper) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop()

	fmt.Printf("[Sweeper] Started with interval %v\n", s.interval)
}

// Stop stops the sweep loop
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	fmt.Println("[Sweeper] Stopped")
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(s.ctx)
		}
	}
}

// SweepOnce runs one sweep of both stores
func (s *Sweeper) SweepOnce(ctx context.Context) {
	proposals := s.proposals.Sweep(ctx)
	deliveries := s.guard.Sweep()
	if proposals > 0 || deliveries > 0 {
		fmt.Printf("[Sweeper] Removed %d expired proposals, %d delivery records\n", proposals, deliveries)
	}
}
