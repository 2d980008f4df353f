package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// NotificationUsecase delivers marketplace notifications.
// WhatsApp is tried first, SMS is the fallback when configured.
type NotificationUsecase struct {
	messages repo.MessageRepo
	sms      repo.SMSRepo        // Optional
	events   repo.EventPublisher // Optional
	replies  *Replies
	now      func() time.Time
}

// NewNotificationUsecase creates a new notification usecase
func NewNotificationUsecase(
	messages repo.MessageRepo,
	sms repo.SMSRepo,
	events repo.EventPublisher,
	replies *Replies,
) *NotificationUsecase {
	return &NotificationUsecase{
		messages: messages,
		sms:      sms,
		events:   events,
		replies:  replies,
		now:      time.Now,
	}
}

// ListingCreated publishes the listing event. The owner already got the bot reply.
func (uc *NotificationUsecase) ListingCreated(ctx context.Context, l *domain.Listing) {
	uc.publish(ctx, domain.EventListingCreated, &domain.ListingEventPayload{
		ListingID: l.ID,
		OwnerID:   l.UserID,
		Title:     l.Title,
		City:      l.City,
		Category:  l.Category,
		Urgency:   l.Urgency,
		Price:     l.PriceMax,
	})
}

// ApplicationCreated notifies the listing owner of a new application
func (uc *NotificationUsecase) ApplicationCreated(ctx context.Context, l *domain.Listing, app *domain.Application, owner, applicant *domain.Account) {
	uc.deliver(ctx, owner, uc.replies.NewApplication(l, app, applicant))
	uc.publish(ctx, domain.EventApplicationCreated, applicationPayload(app))
}

// ApplicationAccepted notifies the applicant and confirms to the owner
func (uc *NotificationUsecase) ApplicationAccepted(ctx context.Context, l *domain.Listing, app *domain.Application, owner, applicant *domain.Account) {
	uc.deliver(ctx, applicant, uc.replies.ApplicationAccepted(l, app, owner))
	uc.deliver(ctx, owner, uc.replies.AcceptanceConfirmed(l, applicant))
	uc.publish(ctx, domain.EventApplicationAccepted, applicationPayload(app))
}

// ApplicationRejected notifies the applicant
func (uc *NotificationUsecase) ApplicationRejected(ctx context.Context, l *domain.Listing, app *domain.Application, applicant *domain.Account) {
	uc.deliver(ctx, applicant, uc.replies.ApplicationRejected(l))
	uc.publish(ctx, domain.EventApplicationRejected, applicationPayload(app))
}

// SendUrgentAlert texts one lawyer about an urgent listing
func (uc *NotificationUsecase) SendUrgentAlert(ctx context.Context, recipient *domain.Account, p *domain.ListingEventPayload) error {
	if uc.sms == nil {
		return fmt.Errorf("sms gateway not configured")
	}
	return uc.sms.SendSMS(ctx, contactPhone(recipient), uc.replies.UrgentAlert(p))
}

func (uc *NotificationUsecase) deliver(ctx context.Context, to *domain.Account, text string) {
	phone := contactPhone(to)
	if phone == "" {
		fmt.Printf("[Notify] Account %d has no phone, skipping\n", to.ID)
		return
	}

	err := uc.messages.SendText(ctx, phone, text)
	if err == nil {
		return
	}
	fmt.Printf("[Notify] WhatsApp to %s failed: %v\n", phone, err)

	if uc.sms == nil {
		return
	}
	if err := uc.sms.SendSMS(ctx, phone, text); err != nil {
		fmt.Printf("[Notify] SMS fallback to %s failed: %v\n", phone, err)
		return
	}
	fmt.Printf("[Notify] Delivered to %s via SMS fallback\n", phone)
}

func (uc *NotificationUsecase) publish(ctx context.Context, eventType domain.EventType, payload any) {
	if uc.events == nil {
		return
	}
	event := &domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: uc.now(),
		Payload:    payload,
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		fmt.Printf("[Notify] Failed to publish %s: %v\n", eventType, err)
	}
}

func applicationPayload(app *domain.Application) *domain.ApplicationEventPayload {
	return &domain.ApplicationEventPayload{
		ApplicationID: app.ID,
		ListingID:     app.ListingID,
		ApplicantID:   app.ApplicantID,
		Status:        app.Status,
		ProposedPrice: app.ProposedPrice,
	}
}

// contactPhone prefers the dedicated WhatsApp number
func contactPhone(a *domain.Account) string {
	if a.WhatsAppNumber != "" {
		return a.WhatsAppNumber
	}
	return a.Phone
}
