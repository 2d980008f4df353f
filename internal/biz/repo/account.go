package repo

import (
	"context"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// AccountRepo is the account repository interface
type AccountRepo interface {
	// FindByPhone looks up an account by an exact phone or whatsapp number.
	// Returns nil, nil when no account matches.
	FindByPhone(ctx context.Context, phone string) (*domain.Account, error)

	// GetByID gets an account, returns domain.ErrAccountNotFound when absent
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// Create creates an account and sets its ID
	Create(ctx context.Context, account *domain.Account) error

	// ListActiveInCity lists active accounts in a city, excluding one account
	ListActiveInCity(ctx context.Context, city string, excludeID int64, limit int) ([]*domain.Account, error)
}
