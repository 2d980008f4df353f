package repo

import (
	"context"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// ProposalStore holds at most one pending proposal per phone number.
// Implementations must treat expired proposals as absent on read.
type ProposalStore interface {
	// Get returns a copy of the live proposal for a phone
	Get(ctx context.Context, phone string) (*domain.PendingProposal, bool)

	// Put stores a proposal, replacing any previous one for the same phone
	Put(ctx context.Context, p *domain.PendingProposal)

	// Delete removes the proposal, reports whether one was present
	Delete(ctx context.Context, phone string) bool

	// Update mutates a live proposal in place under the store lock
	Update(ctx context.Context, phone string, fn func(p *domain.PendingProposal)) bool

	// Sweep drops expired proposals and returns how many were removed
	Sweep(ctx context.Context) int
}

// DeliveryGuard filters webhook redeliveries
type DeliveryGuard interface {
	// ShouldProcess records the message ID and reports whether it is new
	ShouldProcess(messageID string) bool

	// Sweep drops records older than the retention window
	Sweep() int
}
