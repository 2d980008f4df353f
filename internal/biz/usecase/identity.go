package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// IdentityUsecase maps sender phone numbers to accounts
type IdentityUsecase struct {
	accounts    repo.AccountRepo
	countryCode string
}

// NewIdentityUsecase creates a new identity usecase
func NewIdentityUsecase(accounts repo.AccountRepo, countryCode string) *IdentityUsecase {
	return &IdentityUsecase{
		accounts:    accounts,
		countryCode: countryCode,
	}
}

// Resolve finds the account for a raw phone number.
// Returns nil, nil when no variant of the number is registered.
func (uc *IdentityUsecase) Resolve(ctx context.Context, rawPhone string) (*domain.Account, error) {
	for _, variant := range PhoneVariants(rawPhone, uc.countryCode) {
		account, err := uc.accounts.FindByPhone(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("find account by phone: %w", err)
		}
		if account != nil {
			return account, nil
		}
	}
	return nil, nil
}

// PhoneVariants returns the representations of a number tried during lookup,
// most literal first, without duplicates.
func PhoneVariants(rawPhone, countryCode string) []string {
	trimmed := strings.TrimSpace(rawPhone)
	compact := strings.ReplaceAll(trimmed, " ", "")
	bare := strings.TrimPrefix(compact, "+")

	candidates := []string{trimmed, compact, bare, "+" + bare}

	// Some clients prepend the country code to a number that already has it
	if countryCode != "" && strings.HasPrefix(bare, countryCode+countryCode) {
		dedup := strings.TrimPrefix(bare, countryCode)
		candidates = append(candidates, dedup, "+"+dedup)
	}

	seen := make(map[string]bool, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || c == "+" || seen[c] {
			continue
		}
		seen[c] = true
		variants = append(variants, c)
	}
	return variants
}

// NormalizePhone keeps only the digits of a phone number.
// It is the key for per-sender conversation state.
func NormalizePhone(rawPhone string) string {
	var b strings.Builder
	for _, r := range rawPhone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
