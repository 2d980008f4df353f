package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// ApplicationUsecase handles applications to listings
type ApplicationUsecase struct {
	accounts     repo.AccountRepo
	listings     repo.ListingRepo
	applications repo.ApplicationRepo
	notifier     *NotificationUsecase
	now          func() time.Time
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	accounts repo.AccountRepo,
	listings repo.ListingRepo,
	applications repo.ApplicationRepo,
	notifier *NotificationUsecase,
) *ApplicationUsecase {
	return &ApplicationUsecase{
		accounts:     accounts,
		listings:     listings,
		applications: applications,
		notifier:     notifier,
		now:          time.Now,
	}
}

// ApplyRequest is a lawyer's offer on a listing
type ApplyRequest struct {
	ListingID     int64
	ApplicantID   int64
	Message       string
	ProposedPrice float64
}

// Apply records an application and notifies the listing owner
func (uc *ApplicationUsecase) Apply(ctx context.Context, req *ApplyRequest) (*domain.Application, error) {
	listing, err := uc.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingStatusActive {
		return nil, domain.ErrListingClosed
	}
	if listing.UserID == req.ApplicantID {
		return nil, domain.ErrOwnListing
	}

	applied, err := uc.applications.ExistsForApplicant(ctx, req.ListingID, req.ApplicantID)
	if err != nil {
		return nil, fmt.Errorf("check previous application: %w", err)
	}
	if applied {
		return nil, domain.ErrAlreadyApplied
	}

	applicant, err := uc.accounts.GetByID(ctx, req.ApplicantID)
	if err != nil {
		return nil, err
	}
	owner, err := uc.accounts.GetByID(ctx, listing.UserID)
	if err != nil {
		return nil, fmt.Errorf("get listing owner: %w", err)
	}

	app := &domain.Application{
		ListingID:     req.ListingID,
		ApplicantID:   req.ApplicantID,
		Message:       req.Message,
		ProposedPrice: req.ProposedPrice,
		Status:        domain.ApplicationStatusPending,
		CreatedAt:     uc.now(),
	}
	if err := uc.applications.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if uc.notifier != nil {
		uc.notifier.ApplicationCreated(ctx, listing, app, owner, applicant)
	}
	return app, nil
}

// Decide accepts or rejects a pending application.
// Accepting assigns the listing to the applicant.
func (uc *ApplicationUsecase) Decide(ctx context.Context, applicationID int64, status domain.ApplicationStatus) (*domain.Application, error) {
	if status != domain.ApplicationStatusAccepted && status != domain.ApplicationStatusRejected {
		return nil, domain.ErrInvalidStatus
	}

	app, err := uc.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, domain.ErrStatusAlreadySet
	}

	listing, err := uc.listings.GetByID(ctx, app.ListingID)
	if err != nil {
		return nil, err
	}
	if status == domain.ApplicationStatusAccepted && listing.Status != domain.ListingStatusActive {
		return nil, domain.ErrListingClosed
	}
	applicant, err := uc.accounts.GetByID(ctx, app.ApplicantID)
	if err != nil {
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	owner, err := uc.accounts.GetByID(ctx, listing.UserID)
	if err != nil {
		return nil, fmt.Errorf("get listing owner: %w", err)
	}

	// Conditional on the row still being pending
	if err := uc.applications.Decide(ctx, app.ID, status); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	app.Status = status

	if status == domain.ApplicationStatusRejected {
		if uc.notifier != nil {
			uc.notifier.ApplicationRejected(ctx, listing, app, applicant)
		}
		return app, nil
	}

	if err := uc.listings.Assign(ctx, listing.ID, app.ApplicantID); err != nil {
		fmt.Printf("[Bot] Failed to assign listing %d to %d: %v\n", listing.ID, app.ApplicantID, err)
	} else {
		listing.Status = domain.ListingStatusAssigned
		listing.AssignedTo = app.ApplicantID
	}

	if uc.notifier != nil {
		uc.notifier.ApplicationAccepted(ctx, listing, app, owner, applicant)
	}
	return app, nil
}

// GetListing gets a listing by ID
func (uc *ApplicationUsecase) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	return uc.listings.GetByID(ctx, id)
}
