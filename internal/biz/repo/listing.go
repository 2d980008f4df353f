package repo

import (
	"context"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

// ListingRepo is the listing persistence interface
type ListingRepo interface {
	// Create persists a listing and sets its ID
	Create(ctx context.Context, listing *domain.Listing) error

	// GetByID gets a listing, returns domain.ErrListingNotFound when absent
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)

	// Assign marks an active listing assigned to assigneeID.
	// Returns domain.ErrListingClosed when the listing is no longer active.
	Assign(ctx context.Context, id, assigneeID int64) error

	// ListActiveByOwner lists the newest active listings of a user
	ListActiveByOwner(ctx context.Context, userID int64, limit int) ([]*domain.ListingSummary, error)

	// CountActiveByOwner counts active listings of a user
	CountActiveByOwner(ctx context.Context, userID int64) (int, error)
}

// ApplicationRepo is the application persistence interface
type ApplicationRepo interface {
	// Create persists an application and sets its ID.
	// Returns domain.ErrAlreadyApplied when the applicant already applied.
	Create(ctx context.Context, app *domain.Application) error

	// GetByID gets an application, returns domain.ErrApplicationNotFound when absent
	GetByID(ctx context.Context, id int64) (*domain.Application, error)

	// ExistsForApplicant reports whether the user already applied to the listing
	ExistsForApplicant(ctx context.Context, listingID, applicantID int64) (bool, error)

	// Decide moves a pending application to status. Returns
	// domain.ErrStatusAlreadySet when it is no longer pending.
	Decide(ctx context.Context, id int64, status domain.ApplicationStatus) error

	// ListByApplicant lists the newest applications submitted by a user
	ListByApplicant(ctx context.Context, applicantID int64, limit int) ([]*domain.ApplicationSummary, error)

	// CountByApplicant counts applications submitted by a user
	CountByApplicant(ctx context.Context, applicantID int64) (int, error)

	// CountPendingForOwner counts pending applications on a user's listings
	CountPendingForOwner(ctx context.Context, ownerID int64) (int, error)
}
