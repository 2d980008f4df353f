package domain

import "time"

// ApplicationStatus represents the state of an application
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether the status is known
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Emoji returns the marker shown next to the status in chat listings
func (s ApplicationStatus) Emoji() string {
	switch s {
	case ApplicationStatusPending:
		return "⏳"
	case ApplicationStatusAccepted:
		return "✅"
	case ApplicationStatusRejected:
		return "❌"
	default:
		return "❓"
	}
}

// Application is another lawyer's offer to fulfil a listing
type Application struct {
	ID            int64
	ListingID     int64
	ApplicantID   int64
	Message       string
	ProposedPrice float64
	Status        ApplicationStatus
	CreatedAt     time.Time
}

// ApplicationSummary is an application joined with its listing
type ApplicationSummary struct {
	Application     *Application
	ListingTitle    string
	ListingLocation string
}
