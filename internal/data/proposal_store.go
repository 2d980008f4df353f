package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// proposalStore keeps pending proposals in process memory.
// State is lost on restart and is not shared between instances.
type proposalStore struct {
	mu        sync.Mutex
	proposals map[string]*domain.PendingProposal
	ttl       time.Duration
	now       func() time.Time
}

// NewProposalStore creates an in-memory proposal store
func NewProposalStore(ttl time.Duration) repo.ProposalStore {
	return newProposalStore(ttl, time.Now)
}

func newProposalStore(ttl time.Duration, now func() time.Time) *proposalStore {
	if ttl <= 0 {
		ttl = domain.ProposalTTL
	}
	return &proposalStore{
		proposals: make(map[string]*domain.PendingProposal),
		ttl:       ttl,
		now:       now,
	}
}

// liveLocked returns the proposal for phone, evicting it if expired
func (s *proposalStore) liveLocked(phone string) (*domain.PendingProposal, bool) {
	p, ok := s.proposals[phone]
	if !ok {
		return nil, false
	}
	if p.IsExpired(s.now(), s.ttl) {
		delete(s.proposals, phone)
		fmt.Printf("[Store] Proposal for %s expired\n", phone)
		return nil, false
	}
	return p, true
}

func (s *proposalStore) Get(ctx context.Context, phone string) (*domain.PendingProposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.liveLocked(phone)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (s *proposalStore) Put(ctx context.Context, p *domain.PendingProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := p.Clone()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.proposals[c.Phone] = c
}

func (s *proposalStore) Delete(ctx context.Context, phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.liveLocked(phone)
	delete(s.proposals, phone)
	return ok
}

func (s *proposalStore) Update(ctx context.Context, phone string, fn func(p *domain.PendingProposal)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.liveLocked(phone)
	if !ok {
		return false
	}
	fn(p)
	return true
}

func (s *proposalStore) Sweep(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for phone, p := range s.proposals {
		if p.IsExpired(now, s.ttl) {
			delete(s.proposals, phone)
			removed++
		}
	}
	return removed
}
