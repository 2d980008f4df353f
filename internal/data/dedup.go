package data

import (
	"sync"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// DeliveryRetention is how long a message ID is remembered
const DeliveryRetention = 5 * time.Minute

// deliveryGuard remembers recently seen webhook message IDs
type deliveryGuard struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	retention time.Duration
	now       func() time.Time
}

// NewDeliveryGuard creates an in-memory duplicate delivery guard
func NewDeliveryGuard(retention time.Duration) repo.DeliveryGuard {
	return newDeliveryGuard(retention, time.Now)
}

func newDeliveryGuard(retention time.Duration, now func() time.Time) *deliveryGuard {
	if retention <= 0 {
		retention = DeliveryRetention
	}
	return &deliveryGuard{
		seen:      make(map[string]time.Time),
		retention: retention,
		now:       now,
	}
}

// ShouldProcess sweeps old records, then checks and records messageID in
// one critical section so two concurrent deliveries cannot both pass.
func (g *deliveryGuard) ShouldProcess(messageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweepLocked(now)

	if _, ok := g.seen[messageID]; ok {
		return false
	}
	g.seen[messageID] = now
	return true
}

func (g *deliveryGuard) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sweepLocked(g.now())
}

func (g *deliveryGuard) sweepLocked(now time.Time) int {
	removed := 0
	for id, receivedAt := range g.seen {
		if now.Sub(receivedAt) > g.retention {
			delete(g.seen, id)
			removed++
		}
	}
	return removed
}
