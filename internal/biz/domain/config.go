package domain

import "time"

// BotConfig holds the conversation settings
type BotConfig struct {
	SiteURL      string        // Base URL used in links, e.g. https://utap.com.tr
	SupportEmail string        // Shown to unregistered senders
	CountryCode  string        // Dialling code without '+', e.g. "90"
	AITimeout    time.Duration // Bound on every AI call
	ProposalTTL  time.Duration // Lifetime of an unconfirmed proposal
}

// DefaultBotConfig returns the default conversation settings
func DefaultBotConfig() BotConfig {
	return BotConfig{
		SiteURL:      "https://utap.com.tr",
		SupportEmail: "destek@utap.com.tr",
		CountryCode:  "90",
		AITimeout:    15 * time.Second,
		ProposalTTL:  ProposalTTL,
	}
}
