package domain

import "time"

// Account represents a registered lawyer on the marketplace
type Account struct {
	ID             int64
	Email          string
	FullName       string
	Phone          string
	WhatsAppNumber string
	City           string
	Verified       bool
	Active         bool
	CreatedAt      time.Time
}

// AccountStats is the #DURUM summary of an account
type AccountStats struct {
	ActiveListings              int
	PendingApplicationsReceived int
	ApplicationsSent            int
}
