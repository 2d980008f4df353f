package domain

import "time"

// ListingStatus represents the lifecycle state of a listing
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusAssigned  ListingStatus = "assigned"
	ListingStatusCompleted ListingStatus = "completed"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// Urgency is the urgency level stored on a listing
type Urgency string

const (
	UrgencyNormal     Urgency = "normal"
	UrgencyUrgent     Urgency = "urgent"
	UrgencyVeryUrgent Urgency = "very_urgent"
)

// Label returns the Turkish display label
func (u Urgency) Label() string {
	switch u {
	case UrgencyUrgent:
		return "Acil"
	case UrgencyVeryUrgent:
		return "Çok Acil"
	default:
		return "Normal"
	}
}

// IsUrgent reports whether the listing should trigger urgent alerts
func (u Urgency) IsUrgent() bool {
	return u == UrgencyUrgent || u == UrgencyVeryUrgent
}

// ParseUrgencyLabel maps a user supplied label (Normal/Acil/Çok Acil) to an Urgency
func ParseUrgencyLabel(label string) Urgency {
	switch normalizeKeyword(label) {
	case "çok acil":
		return UrgencyVeryUrgent
	case "acil":
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// DefaultListingLifetime is how long a structured-command listing stays open
const DefaultListingLifetime = 30 * 24 * time.Hour

// Listing is a persisted tevkil request
type Listing struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Category    string
	Urgency     Urgency
	Location    string
	City        string
	Courthouse  string
	PriceMin    float64
	PriceMax    float64
	Status      ListingStatus
	AssignedTo  int64 // Accepted applicant, zero until assigned
	CreatedAt   time.Time
	ExpiresAt   time.Time // Zero when the listing does not expire
}

// HasPrice reports whether a price was given
func (l *Listing) HasPrice() bool {
	return l.PriceMax > 0
}

// ListingSummary is a listing with its application count
type ListingSummary struct {
	Listing          *Listing
	ApplicationCount int
}

// ListingFields are the fields extracted from a #ILAN command
type ListingFields struct {
	Title       string
	Category    string
	City        string
	Description string
	Courthouse  string // Optional
	Price       string // Optional, plain decimal such as "4000" or "2500.5"
	Urgency     string // Optional, raw label
	Date        string // Optional
	Time        string // Optional
}
