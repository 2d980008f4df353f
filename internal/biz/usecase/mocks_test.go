package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// Mock implementations

type mockAccountRepo struct {
	mu       sync.Mutex
	accounts []*domain.Account
	lookups  []string
	err      error
}

func (m *mockAccountRepo) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, phone)
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.accounts {
		if a.Phone == phone || (a.WhatsAppNumber != "" && a.WhatsAppNumber == phone) {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *mockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = int64(len(m.accounts) + 1)
	m.accounts = append(m.accounts, account)
	return nil
}

func (m *mockAccountRepo) ListActiveInCity(ctx context.Context, city string, excludeID int64, limit int) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Account
	for _, a := range m.accounts {
		if a.City == city && a.ID != excludeID && a.Active && len(result) < limit {
			result = append(result, a)
		}
	}
	return result, nil
}

type mockListingRepo struct {
	mu        sync.Mutex
	listings  []*domain.Listing
	createErr error
}

func (m *mockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	listing.ID = int64(len(m.listings) + 100)
	m.listings = append(m.listings, listing)
	return nil
}

func (m *mockListingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (m *mockListingRepo) Assign(ctx context.Context, id, assigneeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if l.ID == id {
			if l.Status != domain.ListingStatusActive {
				return domain.ErrListingClosed
			}
			l.Status = domain.ListingStatusAssigned
			l.AssignedTo = assigneeID
			return nil
		}
	}
	return domain.ErrListingNotFound
}

func (m *mockListingRepo) ListActiveByOwner(ctx context.Context, userID int64, limit int) ([]*domain.ListingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.ListingSummary
	for i := len(m.listings) - 1; i >= 0 && len(result) < limit; i-- {
		l := m.listings[i]
		if l.UserID == userID && l.Status == domain.ListingStatusActive {
			result = append(result, &domain.ListingSummary{Listing: l})
		}
	}
	return result, nil
}

func (m *mockListingRepo) CountActiveByOwner(ctx context.Context, userID int64) (int, error) {
	list, _ := m.ListActiveByOwner(ctx, userID, 1<<30)
	return len(list), nil
}

func (m *mockListingRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listings)
}

type mockApplicationRepo struct {
	mu   sync.Mutex
	apps []*domain.Application

	// Resolves listing owners for CountPendingForOwner
	listings *mockListingRepo
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ListingID == app.ListingID && a.ApplicantID == app.ApplicantID {
			return domain.ErrAlreadyApplied
		}
	}
	app.ID = int64(len(m.apps) + 1)
	m.apps = append(m.apps, app)
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (m *mockApplicationRepo) ExistsForApplicant(ctx context.Context, listingID, applicantID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ListingID == listingID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockApplicationRepo) Decide(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.ID == id {
			if a.Status != domain.ApplicationStatusPending {
				return domain.ErrStatusAlreadySet
			}
			a.Status = status
			return nil
		}
	}
	return domain.ErrApplicationNotFound
}

func (m *mockApplicationRepo) ListByApplicant(ctx context.Context, applicantID int64, limit int) ([]*domain.ApplicationSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.ApplicationSummary
	for _, a := range m.apps {
		if a.ApplicantID == applicantID && len(result) < limit {
			result = append(result, &domain.ApplicationSummary{Application: a, ListingTitle: "İlan", ListingLocation: "Ankara"})
		}
	}
	return result, nil
}

func (m *mockApplicationRepo) CountByApplicant(ctx context.Context, applicantID int64) (int, error) {
	list, _ := m.ListByApplicant(ctx, applicantID, 1<<30)
	return len(list), nil
}

func (m *mockApplicationRepo) CountPendingForOwner(ctx context.Context, ownerID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listings == nil {
		return 0, nil
	}
	count := 0
	for _, a := range m.apps {
		if a.Status != domain.ApplicationStatusPending {
			continue
		}
		if l, err := m.listings.GetByID(ctx, a.ListingID); err == nil && l.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

type mockProposalStore struct {
	mu        sync.Mutex
	proposals map[string]*domain.PendingProposal
}

func newMockProposalStore() *mockProposalStore {
	return &mockProposalStore{proposals: make(map[string]*domain.PendingProposal)}
}

func (m *mockProposalStore) Get(ctx context.Context, phone string) (*domain.PendingProposal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[phone]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (m *mockProposalStore) Put(ctx context.Context, p *domain.PendingProposal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[p.Phone] = p.Clone()
}

func (m *mockProposalStore) Delete(ctx context.Context, phone string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.proposals[phone]
	delete(m.proposals, phone)
	return ok
}

func (m *mockProposalStore) Update(ctx context.Context, phone string, fn func(p *domain.PendingProposal)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[phone]
	if !ok {
		return false
	}
	fn(p)
	return true
}

func (m *mockProposalStore) Sweep(ctx context.Context) int {
	return 0
}

func (m *mockProposalStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.proposals)
}

// stubAI answers with canned results and counts calls
type stubAI struct {
	mu sync.Mutex

	extract    func(ctx context.Context, text string) (*domain.ListingProposal, error)
	classify   func(ctx context.Context, text string) (*domain.IntentResult, error)
	correction func(ctx context.Context, text string, current domain.ListingProposal) (*domain.Correction, error)

	extractCalls  int
	classifyCalls int
	correctCalls  int
}

func (s *stubAI) ExtractListing(ctx context.Context, text string) (*domain.ListingProposal, error) {
	s.mu.Lock()
	s.extractCalls++
	fn := s.extract
	s.mu.Unlock()
	if fn == nil {
		return nil, domain.ErrAIUnavailable
	}
	return fn(ctx, text)
}

func (s *stubAI) ClassifyIntent(ctx context.Context, text string) (*domain.IntentResult, error) {
	s.mu.Lock()
	s.classifyCalls++
	fn := s.classify
	s.mu.Unlock()
	if fn == nil {
		return &domain.IntentResult{Intent: domain.IntentUnknown}, nil
	}
	return fn(ctx, text)
}

func (s *stubAI) ExtractCorrection(ctx context.Context, text string, current domain.ListingProposal) (*domain.Correction, error) {
	s.mu.Lock()
	s.correctCalls++
	fn := s.correction
	s.mu.Unlock()
	if fn == nil {
		return nil, domain.ErrAIMalformed
	}
	return fn(ctx, text, current)
}

func intent(i domain.Intent, confidence float64) func(ctx context.Context, text string) (*domain.IntentResult, error) {
	return func(ctx context.Context, text string) (*domain.IntentResult, error) {
		return &domain.IntentResult{Intent: i, Confidence: confidence}, nil
	}
}

type sentMessage struct {
	to   string
	text string
}

type mockMessageRepo struct {
	mu      sync.Mutex
	sent    []sentMessage
	read    []string
	sendErr error
}

func (m *mockMessageRepo) SendText(ctx context.Context, to, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMessage{to: to, text: text})
	return nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.read = append(m.read, messageID)
	return nil
}

type mockSMSRepo struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *mockSMSRepo) SendSMS(ctx context.Context, phone, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{to: phone, text: text})
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var types []string
	for _, e := range m.events {
		types = append(types, string(e.Type))
	}
	sort.Strings(types)
	return types
}

var errBackend = errors.New("backend down")
