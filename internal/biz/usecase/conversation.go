package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

const (
	approveCommand = "#ONAYLA"
	cancelCommand  = "#IPTAL"

	maxTitleRunes = 100
)

// ConversationUsecase drives the chat flow for every sender (aggregate)
type ConversationUsecase struct {
	identity     *IdentityUsecase
	listings     repo.ListingRepo
	applications repo.ApplicationRepo
	proposals    repo.ProposalStore
	ai           repo.ListingAI // nil when no AI backend is configured
	notifier     *NotificationUsecase
	replies      *Replies
	config       domain.BotConfig

	commands []command

	// Per-sender serialization
	locks   map[string]*phoneLock
	locksMu sync.Mutex

	now func() time.Time
}

type phoneLock struct {
	mu   sync.Mutex
	refs int
}

// NewConversationUsecase creates a new conversation usecase.
// ai and notifier may be nil.
func NewConversationUsecase(
	identity *IdentityUsecase,
	listings repo.ListingRepo,
	applications repo.ApplicationRepo,
	proposals repo.ProposalStore,
	ai repo.ListingAI,
	notifier *NotificationUsecase,
	config domain.BotConfig,
) *ConversationUsecase {
	if config.AITimeout <= 0 {
		config.AITimeout = domain.DefaultBotConfig().AITimeout
	}
	uc := &ConversationUsecase{
		identity:     identity,
		listings:     listings,
		applications: applications,
		proposals:    proposals,
		ai:           ai,
		notifier:     notifier,
		replies:      NewReplies(config),
		config:       config,
		locks:        make(map[string]*phoneLock),
		now:          time.Now,
	}
	uc.commands = uc.commandTable()
	return uc
}

// AIEnabled reports whether natural language listings are available
func (uc *ConversationUsecase) AIEnabled() bool {
	return uc.ai != nil
}

// Replies exposes the message renderer
func (uc *ConversationUsecase) Replies() *Replies {
	return uc.replies
}

// ProcessMessage handles one text message from a sender and returns the reply.
// It never fails; every outcome is a reply.
func (uc *ConversationUsecase) ProcessMessage(ctx context.Context, senderPhone, text string) *domain.Reply {
	text = strings.TrimSpace(text)

	account, err := uc.identity.Resolve(ctx, senderPhone)
	if err != nil {
		fmt.Printf("[Bot] Identity lookup failed for %s: %v\n", senderPhone, err)
		return failure(uc.replies.TemporaryFailure())
	}
	if account == nil {
		return failure(uc.replies.NotRegistered(senderPhone))
	}

	phone := NormalizePhone(senderPhone)
	unlock := uc.lockPhone(phone)
	defer unlock()

	if pending, ok := uc.proposals.Get(ctx, phone); ok {
		return uc.handlePending(ctx, phone, pending, text)
	}

	if cmd := uc.matchCommand(text); cmd != nil {
		return cmd.handle(ctx, account, phone, text)
	}

	if domain.LooksLikeListing(text) {
		return uc.proposeListing(ctx, account, phone, text)
	}

	return failure(uc.replies.Unknown())
}

// handlePending decides what a reply to a preview means
func (uc *ConversationUsecase) handlePending(ctx context.Context, phone string, pending *domain.PendingProposal, text string) *domain.Reply {
	switch {
	case strings.EqualFold(text, approveCommand):
		return uc.approve(ctx, phone, pending)
	case strings.EqualFold(text, cancelCommand):
		return uc.cancel(ctx, phone)
	}

	if uc.ai == nil {
		return failure(uc.replies.Unclear())
	}

	aiCtx, cancel := context.WithTimeout(ctx, uc.config.AITimeout)
	defer cancel()

	result, err := uc.ai.ClassifyIntent(aiCtx, text)
	if err != nil {
		fmt.Printf("[AI] Intent classification failed for %s: %v\n", phone, err)
		if isTimeout(aiCtx, err) {
			return failure(uc.replies.AITimeout())
		}
		return failure(uc.replies.Unclear())
	}
	fmt.Printf("[Bot] Intent for %s: %s (confidence %.2f)\n", phone, result.Intent, result.Confidence)

	switch {
	case result.Intent == domain.IntentApprove && result.Confidence > domain.ApproveMinConfidence:
		if result.Confidence < domain.LowConfidenceApproval {
			fmt.Printf("[Bot] Warning: low confidence approval for %s (%.2f)\n", phone, result.Confidence)
		}
		return uc.approve(ctx, phone, pending)

	case result.Intent == domain.IntentReject && result.Confidence > domain.RejectMinConfidence:
		return uc.cancel(ctx, phone)

	case result.Intent == domain.IntentCorrection && result.Confidence > domain.CorrectionMinConfidence:
		return uc.correct(ctx, phone, pending, text)
	}

	return failure(uc.replies.Unclear())
}

// approve persists the pending proposal. The proposal is removed only after
// the listing is stored so the user can retry.
func (uc *ConversationUsecase) approve(ctx context.Context, phone string, pending *domain.PendingProposal) *domain.Reply {
	listing := uc.listingFromProposal(pending)
	if err := uc.listings.Create(ctx, listing); err != nil {
		fmt.Printf("[Bot] Failed to persist listing for %s (user %d): %v\n", phone, pending.OwnerUserID, err)
		return failure(uc.replies.PersistFailed())
	}

	uc.proposals.Delete(ctx, phone)
	fmt.Printf("[Bot] Listing #%d created from proposal: %s\n", listing.ID, listing.Title)

	if uc.notifier != nil {
		uc.notifier.ListingCreated(ctx, listing)
	}

	return &domain.Reply{
		Success:   true,
		Message:   uc.replies.Published(listing),
		ListingID: listing.ID,
	}
}

func (uc *ConversationUsecase) cancel(ctx context.Context, phone string) *domain.Reply {
	if !uc.proposals.Delete(ctx, phone) {
		return failure(uc.replies.NothingToCancel())
	}
	return &domain.Reply{Success: true, Message: uc.replies.Cancelled()}
}

// correct applies a correction. On any failure the stored proposal is untouched.
func (uc *ConversationUsecase) correct(ctx context.Context, phone string, pending *domain.PendingProposal, text string) *domain.Reply {
	aiCtx, cancel := context.WithTimeout(ctx, uc.config.AITimeout)
	defer cancel()

	correction, err := uc.ai.ExtractCorrection(aiCtx, text, pending.Proposal)
	if err != nil {
		fmt.Printf("[AI] Correction failed for %s: %v\n", phone, err)
		if isTimeout(aiCtx, err) {
			return failure(uc.replies.AITimeout())
		}
		return failure(uc.replies.CorrectionFailed())
	}

	updated := uc.proposals.Update(ctx, phone, func(p *domain.PendingProposal) {
		p.Proposal = correction.Proposal
	})
	if !updated {
		return failure(uc.replies.NothingToApprove())
	}

	category, urgency := domain.InferCategoryAndUrgency(correction.Proposal.Courthouse, pending.OriginalMessage)
	return &domain.Reply{
		Success: true,
		Message: uc.replies.CorrectedPreview(correction, category, urgency),
	}
}

// proposeListing asks the AI for a draft and stores it for confirmation
func (uc *ConversationUsecase) proposeListing(ctx context.Context, account *domain.Account, phone, text string) *domain.Reply {
	if uc.ai == nil {
		return failure(uc.replies.ExtractionFailed())
	}

	preview := text
	if r := []rune(preview); len(r) > 50 {
		preview = string(r[:50]) + "..."
	}
	fmt.Printf("[AI] Extracting listing for %s: %s\n", phone, preview)

	aiCtx, cancel := context.WithTimeout(ctx, uc.config.AITimeout)
	defer cancel()

	proposal, err := uc.ai.ExtractListing(aiCtx, text)
	if err != nil {
		fmt.Printf("[AI] Extraction failed for %s: %v\n", phone, err)
		if isTimeout(aiCtx, err) {
			return failure(uc.replies.AITimeout())
		}
		return failure(uc.replies.ExtractionFailed())
	}
	if strings.TrimSpace(proposal.Title) == "" {
		fmt.Printf("[AI] Extraction for %s returned no title\n", phone)
		return failure(uc.replies.ExtractionFailed())
	}

	uc.proposals.Put(ctx, &domain.PendingProposal{
		Phone:           phone,
		OwnerUserID:     account.ID,
		Proposal:        *proposal,
		OriginalMessage: text,
		CreatedAt:       uc.now(),
	})

	category, urgency := domain.InferCategoryAndUrgency(proposal.Courthouse, text)
	return &domain.Reply{
		Success: true,
		Message: uc.replies.Preview(*proposal, category, urgency),
	}
}

func (uc *ConversationUsecase) listingFromProposal(pending *domain.PendingProposal) *domain.Listing {
	p := pending.Proposal
	category, urgency := domain.InferCategoryAndUrgency(p.Courthouse, pending.OriginalMessage)
	now := uc.now()

	return &domain.Listing{
		UserID:      pending.OwnerUserID,
		Title:       truncateRunes(p.Title, maxTitleRunes),
		Description: p.Description,
		Category:    category,
		Urgency:     urgency,
		Location:    p.City,
		City:        p.City,
		Courthouse:  p.Courthouse,
		PriceMin:    p.Price,
		PriceMax:    p.Price,
		Status:      domain.ListingStatusActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(domain.DefaultListingLifetime),
	}
}

// lockPhone serializes messages of one sender. Entries are dropped when idle.
func (uc *ConversationUsecase) lockPhone(phone string) func() {
	uc.locksMu.Lock()
	l, ok := uc.locks[phone]
	if !ok {
		l = &phoneLock{}
		uc.locks[phone] = l
	}
	l.refs++
	uc.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		uc.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(uc.locks, phone)
		}
		uc.locksMu.Unlock()
	}
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func failure(message string) *domain.Reply {
	return &domain.Reply{Success: false, Message: message}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
