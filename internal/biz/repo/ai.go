package repo

import (
	"context"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// ListingAI is the text understanding backend used by the conversation flow
type ListingAI interface {
	// ExtractListing turns free-form text into a listing proposal
	ExtractListing(ctx context.Context, text string) (*domain.ListingProposal, error)

	// ClassifyIntent classifies a reply to a preview without other context
	ClassifyIntent(ctx context.Context, text string) (*domain.IntentResult, error)

	// ExtractCorrection applies a correction utterance to the current proposal
	ExtractCorrection(ctx context.Context, text string, current domain.ListingProposal) (*domain.Correction, error)
}
