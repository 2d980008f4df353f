package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/usecase"
)

// UrgentAlertLimit caps the recipients of one urgent alert
const UrgentAlertLimit = 20

// UrgentAlertService texts lawyers in the same city about urgent listings
type UrgentAlertService struct {
	accounts repo.AccountRepo
	notifier *usecase.NotificationUsecase
	limit    int
}

// NewUrgentAlertService creates a new urgent alert service
func NewUrgentAlertService(accounts repo.AccountRepo, notifier *usecase.NotificationUsecase) *UrgentAlertService {
	return &UrgentAlertService{
		accounts: accounts,
		notifier: notifier,
		limit:    UrgentAlertLimit,
	}
}

// HandleEvent handles listing.created deliveries. Other events and
// non-urgent listings are acknowledged without work.
func (s *UrgentAlertService) HandleEvent(ctx context.Context, event *domain.Event, payload json.RawMessage) error {
	if event.Type != domain.EventListingCreated {
		return nil
	}

	var p domain.ListingEventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		fmt.Printf("[Alerts] Bad payload in %s: %v\n", event.ID, err)
		return nil
	}
	if !p.Urgency.IsUrgent() || p.City == "" {
		return nil
	}

	recipients, err := s.accounts.ListActiveInCity(ctx, p.City, p.OwnerID, s.limit)
	if err != nil {
		return fmt.Errorf("failed to list lawyers in %s: %w", p.City, err)
	}

	sent := 0
	for _, a := range recipients {
		if err := s.notifier.SendUrgentAlert(ctx, a, &p); err != nil {
			fmt.Printf("[Alerts] Failed to alert account %d: %v\n", a.ID, err)
			continue
		}
		sent++
	}
	fmt.Printf("[Alerts] Listing %d: alerted %d/%d lawyers in %s\n", p.ListingID, sent, len(recipients), p.City)
	return nil
}
