package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

type applicationFixture struct {
	uc       *ApplicationUsecase
	accounts *mockAccountRepo
	listings *mockListingRepo
	apps     *mockApplicationRepo
	messages *mockMessageRepo
	sms      *mockSMSRepo
	events   *mockPublisher
	listing  *domain.Listing
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()

	f := &applicationFixture{
		accounts: &mockAccountRepo{accounts: []*domain.Account{
			{ID: 1, FullName: "Av. Ayşe Yılmaz", Phone: "905551111111", City: "İzmir", Active: true},
			{ID: 2, FullName: "Av. Mehmet Kaya", Phone: "905552222222", WhatsAppNumber: "905553333333", City: "İzmir", Active: true},
			{ID: 3, FullName: "Av. Zeynep Demir", Phone: "905554444444", City: "İzmir", Active: true},
		}},
		listings: &mockListingRepo{},
		apps:     &mockApplicationRepo{},
		messages: &mockMessageRepo{},
		sms:      &mockSMSRepo{},
		events:   &mockPublisher{},
	}

	f.listing = &domain.Listing{
		UserID:    1,
		Title:     "Aile Mahkemesi duruşma",
		Location:  "İzmir",
		City:      "İzmir",
		Status:    domain.ListingStatusActive,
		CreatedAt: time.Now(),
	}
	_ = f.listings.Create(context.Background(), f.listing)
	f.apps.listings = f.listings

	notifier := NewNotificationUsecase(f.messages, f.sms, f.events, NewReplies(domain.DefaultBotConfig()))
	f.uc = NewApplicationUsecase(f.accounts, f.listings, f.apps, notifier)
	return f
}

func TestApply_NotifiesOwner(t *testing.T) {
	f := newApplicationFixture(t)

	app, err := f.uc.Apply(context.Background(), &ApplyRequest{
		ListingID:     f.listing.ID,
		ApplicantID:   2,
		Message:       "Yarın müsaitim",
		ProposedPrice: 3500,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if app.Status != domain.ApplicationStatusPending {
		t.Errorf("Expected pending, got %s", app.Status)
	}

	if len(f.messages.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(f.messages.sent))
	}
	msg := f.messages.sent[0]
	if msg.to != "905551111111" {
		t.Errorf("Expected owner phone, got %s", msg.to)
	}
	if !strings.Contains(msg.text, "Av. Mehmet Kaya") || !strings.Contains(msg.text, "3500") {
		t.Errorf("Unexpected notification: %q", msg.text)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != string(domain.EventApplicationCreated) {
		t.Errorf("Expected application.created event, got %v", got)
	}
}

func TestApply_OwnListing(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.uc.Apply(context.Background(), &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 1})
	if !errors.Is(err, domain.ErrOwnListing) {
		t.Errorf("Expected ErrOwnListing, got %v", err)
	}
}

func TestApply_ClosedListing(t *testing.T) {
	f := newApplicationFixture(t)
	f.listing.Status = domain.ListingStatusAssigned

	_, err := f.uc.Apply(context.Background(), &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2})
	if !errors.Is(err, domain.ErrListingClosed) {
		t.Errorf("Expected ErrListingClosed, got %v", err)
	}
}

func TestDecide_AcceptNotifiesBothSides(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	app, _ := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2, ProposedPrice: 3000})
	f.messages.sent = nil

	decided, err := f.uc.Decide(ctx, app.ID, domain.ApplicationStatusAccepted)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if decided.Status != domain.ApplicationStatusAccepted {
		t.Errorf("Expected accepted, got %s", decided.Status)
	}
	if f.listing.Status != domain.ListingStatusAssigned {
		t.Errorf("Expected listing assigned, got %s", f.listing.Status)
	}
	if f.listing.AssignedTo != 2 {
		t.Errorf("Expected listing assigned to 2, got %d", f.listing.AssignedTo)
	}

	if len(f.messages.sent) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(f.messages.sent))
	}
	if f.messages.sent[0].to != "905553333333" || !strings.Contains(f.messages.sent[0].text, "KABUL EDİLDİ") {
		t.Errorf("Expected acceptance to applicant's WhatsApp number, got %+v", f.messages.sent[0])
	}
	if f.messages.sent[1].to != "905551111111" {
		t.Errorf("Expected confirmation to owner, got %+v", f.messages.sent[1])
	}
}

func TestDecide_RejectAndAlreadyDecided(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	app, _ := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2})

	if _, err := f.uc.Decide(ctx, app.ID, domain.ApplicationStatusRejected); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if f.listing.Status != domain.ListingStatusActive {
		t.Errorf("Expected listing to stay active, got %s", f.listing.Status)
	}

	_, err := f.uc.Decide(ctx, app.ID, domain.ApplicationStatusAccepted)
	if !errors.Is(err, domain.ErrStatusAlreadySet) {
		t.Errorf("Expected ErrStatusAlreadySet, got %v", err)
	}

	_, err = f.uc.Decide(ctx, app.ID, domain.ApplicationStatusPending)
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestApply_AlreadyApplied(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2, ProposedPrice: 3000}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	_, err := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2, ProposedPrice: 2500})
	if !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Errorf("Expected ErrAlreadyApplied, got %v", err)
	}

	if len(f.apps.apps) != 1 {
		t.Errorf("Expected 1 application, got %d", len(f.apps.apps))
	}
	if len(f.messages.sent) != 1 {
		t.Errorf("Expected owner notified once, got %d", len(f.messages.sent))
	}

	// Another lawyer can still apply
	if _, err := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 3}); err != nil {
		t.Errorf("Expected second applicant to succeed, got %v", err)
	}
}

// staleApplicationRepo always reads an application as pending, as a
// concurrent reader would before the other decision commits.
type staleApplicationRepo struct {
	*mockApplicationRepo
}

func (r *staleApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	a, err := r.mockApplicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = domain.ApplicationStatusPending
	return a, nil
}

func TestDecide_ConcurrentDecisionLoses(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	app, _ := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2})

	notifier := NewNotificationUsecase(f.messages, f.sms, f.events, NewReplies(domain.DefaultBotConfig()))
	uc := NewApplicationUsecase(f.accounts, f.listings, &staleApplicationRepo{f.apps}, notifier)

	if _, err := uc.Decide(ctx, app.ID, domain.ApplicationStatusRejected); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	f.messages.sent = nil

	_, err := uc.Decide(ctx, app.ID, domain.ApplicationStatusAccepted)
	if !errors.Is(err, domain.ErrStatusAlreadySet) {
		t.Errorf("Expected ErrStatusAlreadySet, got %v", err)
	}
	if len(f.messages.sent) != 0 {
		t.Errorf("Expected no notification for the losing decision, got %d", len(f.messages.sent))
	}
	if f.listing.Status != domain.ListingStatusActive {
		t.Errorf("Expected listing to stay active, got %s", f.listing.Status)
	}
}

func TestDecide_AcceptOnAssignedListing(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	first, _ := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2})
	second, _ := f.uc.Apply(ctx, &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 3})

	if _, err := f.uc.Decide(ctx, first.ID, domain.ApplicationStatusAccepted); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	_, err := f.uc.Decide(ctx, second.ID, domain.ApplicationStatusAccepted)
	if !errors.Is(err, domain.ErrListingClosed) {
		t.Errorf("Expected ErrListingClosed, got %v", err)
	}

	got, _ := f.apps.GetByID(ctx, second.ID)
	if got.Status != domain.ApplicationStatusPending {
		t.Errorf("Expected second application to stay pending, got %s", got.Status)
	}
	if f.listing.AssignedTo != 2 {
		t.Errorf("Expected listing to stay with 2, got %d", f.listing.AssignedTo)
	}
}

func TestNotification_SMSFallback(t *testing.T) {
	f := newApplicationFixture(t)
	f.messages.sendErr = errBackend

	_, err := f.uc.Apply(context.Background(), &ApplyRequest{ListingID: f.listing.ID, ApplicantID: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(f.sms.sent) != 1 {
		t.Fatalf("Expected SMS fallback, got %d", len(f.sms.sent))
	}
	if f.sms.sent[0].to != "905551111111" {
		t.Errorf("Expected SMS to owner, got %s", f.sms.sent[0].to)
	}
}

func TestNotification_UrgentAlert(t *testing.T) {
	sms := &mockSMSRepo{}
	uc := NewNotificationUsecase(&mockMessageRepo{}, sms, nil, NewReplies(domain.DefaultBotConfig()))

	err := uc.SendUrgentAlert(context.Background(),
		&domain.Account{ID: 5, Phone: "905554444444"},
		&domain.ListingEventPayload{ListingID: 42, Title: "Ağır Ceza duruşma", City: "Ankara"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sms.sent) != 1 || !strings.Contains(sms.sent[0].text, "https://utap.com.tr/posts/42") {
		t.Errorf("Unexpected SMS: %+v", sms.sent)
	}

	noSMS := NewNotificationUsecase(&mockMessageRepo{}, nil, nil, NewReplies(domain.DefaultBotConfig()))
	if err := noSMS.SendUrgentAlert(context.Background(), &domain.Account{Phone: "1"}, &domain.ListingEventPayload{}); err == nil {
		t.Error("Expected error without SMS gateway")
	}
}
