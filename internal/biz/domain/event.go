package domain

import "time"

// EventType names a marketplace event
type EventType string

const (
	EventListingCreated      EventType = "listing.created"
	EventApplicationCreated  EventType = "application.created"
	EventApplicationAccepted EventType = "application.accepted"
	EventApplicationRejected EventType = "application.rejected"
)

// Event is a marketplace event published to the broker
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// ListingEventPayload is the payload of listing events
type ListingEventPayload struct {
	ListingID int64   `json:"listing_id"`
	OwnerID   int64   `json:"owner_id"`
	Title     string  `json:"title"`
	City      string  `json:"city"`
	Category  string  `json:"category"`
	Urgency   Urgency `json:"urgency"`
	Price     float64 `json:"price"`
}

// ApplicationEventPayload is the payload of application events
type ApplicationEventPayload struct {
	ApplicationID int64             `json:"application_id"`
	ListingID     int64             `json:"listing_id"`
	ApplicantID   int64             `json:"applicant_id"`
	Status        ApplicationStatus `json:"status"`
	ProposedPrice float64           `json:"proposed_price"`
}
