package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

const chatListLimit = 5

type commandHandler func(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply

type command struct {
	prefix string
	handle commandHandler
}

// commandTable is matched top to bottom. A prefix must come before any
// shorter prefix it starts with (#ILANLARIM before #ILAN).
func (uc *ConversationUsecase) commandTable() []command {
	return []command{
		{"#ILANLARIM", uc.handleMyListings},
		{"#BASVURULARIM", uc.handleMyApplications},
		{ListingCommandTag, uc.handleCreateListing},
		{"#YARDIM", uc.handleHelp},
		{"#HELP", uc.handleHelp},
		{"#DURUM", uc.handleStatus},
		{approveCommand, uc.handleNothingToApprove},
		{cancelCommand, uc.handleNothingToCancel},
	}
}

// CommandPrefixes lists the recognised chat commands in match order
func (uc *ConversationUsecase) CommandPrefixes() []string {
	prefixes := make([]string, len(uc.commands))
	for i, c := range uc.commands {
		prefixes[i] = c.prefix
	}
	return prefixes
}

func (uc *ConversationUsecase) matchCommand(text string) *command {
	for i := range uc.commands {
		if hasCommandPrefix(text, uc.commands[i].prefix) {
			return &uc.commands[i]
		}
	}
	return nil
}

func (uc *ConversationUsecase) handleCreateListing(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	fields, err := ParseListingCommand(text)
	var missing *domain.MissingFieldsError
	if errors.As(err, &missing) {
		return failure(uc.replies.MissingFields(missing.Fields))
	}
	if err != nil || fields == nil {
		return failure(uc.replies.MissingFields(MissingRequiredFields(nil)))
	}

	listing := uc.listingFromFields(account, fields)
	if err := uc.listings.Create(ctx, listing); err != nil {
		fmt.Printf("[Bot] Failed to create #ILAN listing for %s: %v\n", phone, err)
		return failure(uc.replies.CreateFailed())
	}
	fmt.Printf("[Bot] Listing #%d created by command: %s\n", listing.ID, listing.Title)

	if uc.notifier != nil {
		uc.notifier.ListingCreated(ctx, listing)
	}

	return &domain.Reply{
		Success:   true,
		Message:   uc.replies.Created(listing),
		ListingID: listing.ID,
	}
}

func (uc *ConversationUsecase) listingFromFields(account *domain.Account, f *domain.ListingFields) *domain.Listing {
	now := uc.now()
	listing := &domain.Listing{
		UserID:      account.ID,
		Title:       truncateRunes(f.Title, maxTitleRunes),
		Description: f.Description,
		Category:    f.Category,
		Urgency:     domain.ParseUrgencyLabel(f.Urgency),
		Location:    f.City,
		City:        f.City,
		Courthouse:  f.Courthouse,
		Status:      domain.ListingStatusActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(domain.DefaultListingLifetime),
	}
	if f.Price != "" {
		if price, err := strconv.ParseFloat(f.Price, 64); err == nil {
			listing.PriceMax = price
		}
	}
	return listing
}

func (uc *ConversationUsecase) handleHelp(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	return &domain.Reply{Success: true, Message: uc.replies.Help(uc.AIEnabled())}
}

func (uc *ConversationUsecase) handleStatus(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	stats, err := uc.accountStats(ctx, account.ID)
	if err != nil {
		fmt.Printf("[Bot] Failed to load stats for user %d: %v\n", account.ID, err)
		return failure(uc.replies.TemporaryFailure())
	}
	return &domain.Reply{Success: true, Message: uc.replies.Status(account, stats)}
}

func (uc *ConversationUsecase) accountStats(ctx context.Context, userID int64) (*domain.AccountStats, error) {
	active, err := uc.listings.CountActiveByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count active listings: %w", err)
	}
	pending, err := uc.applications.CountPendingForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count pending applications: %w", err)
	}
	sent, err := uc.applications.CountByApplicant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count sent applications: %w", err)
	}
	return &domain.AccountStats{
		ActiveListings:              active,
		PendingApplicationsReceived: pending,
		ApplicationsSent:            sent,
	}, nil
}

func (uc *ConversationUsecase) handleMyListings(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	listings, err := uc.listings.ListActiveByOwner(ctx, account.ID, chatListLimit)
	if err != nil {
		fmt.Printf("[Bot] Failed to list listings for user %d: %v\n", account.ID, err)
		return failure(uc.replies.TemporaryFailure())
	}
	return &domain.Reply{Success: true, Message: uc.replies.MyListings(listings)}
}

func (uc *ConversationUsecase) handleMyApplications(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	apps, err := uc.applications.ListByApplicant(ctx, account.ID, chatListLimit)
	if err != nil {
		fmt.Printf("[Bot] Failed to list applications for user %d: %v\n", account.ID, err)
		return failure(uc.replies.TemporaryFailure())
	}
	return &domain.Reply{Success: true, Message: uc.replies.MyApplications(apps)}
}

func (uc *ConversationUsecase) handleNothingToApprove(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	return failure(uc.replies.NothingToApprove())
}

func (uc *ConversationUsecase) handleNothingToCancel(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	return failure(uc.replies.NothingToCancel())
}
