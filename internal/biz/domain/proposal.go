package domain

import "time"

// ProposalTTL is how long a pending proposal waits for confirmation
const ProposalTTL = 15 * time.Minute

// ListingProposal is an AI-extracted listing draft
type ListingProposal struct {
	Title       string  `json:"title"`
	Courthouse  string  `json:"courthouse"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// PendingProposal is a proposal awaiting the sender's approval
type PendingProposal struct {
	Phone           string
	OwnerUserID     int64
	Proposal        ListingProposal
	OriginalMessage string
	CreatedAt       time.Time
}

// IsExpired checks whether the proposal outlived the ttl
func (p *PendingProposal) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.CreatedAt) > ttl
}

// Clone returns an independent copy
func (p *PendingProposal) Clone() *PendingProposal {
	c := *p
	return &c
}

// Correction is the result of applying a correction utterance to a proposal
type Correction struct {
	Proposal      ListingProposal
	ChangedField  string
	ChangeSummary string
}
