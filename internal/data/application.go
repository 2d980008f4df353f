package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

// applicationRepo implements the Application repository
type applicationRepo struct {
	store *Store
}

// NewApplicationRepo creates a new Application repository
func NewApplicationRepo(store *Store) repo.ApplicationRepo {
	return &applicationRepo{store: store}
}

func scanApplication(row rowScanner, extra ...any) (*domain.Application, error) {
	var a domain.Application
	var status string
	var createdAt int64
	dest := []any{&a.ID, &a.ListingID, &a.ApplicantID, &a.Message, &a.ProposedPrice, &status, &createdAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	a.Status = domain.ApplicationStatus(status)
	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

// Create persists an application. The unique (post_id, applicant_id) index
// rejects a second application from the same lawyer.
func (r *applicationRepo) Create(ctx context.Context, a *domain.Application) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = domain.ApplicationStatusPending
	}

	id, err := r.store.insert(ctx, `
		INSERT INTO applications (post_id, applicant_id, message, proposed_price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ListingID, a.ApplicantID, a.Message, a.ProposedPrice, string(a.Status), a.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return domain.ErrAlreadyApplied
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	a.ID = id
	return nil
}

// GetByID gets an application by ID
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	row := r.store.queryRow(ctx, `
		SELECT id, post_id, applicant_id, message, proposed_price, status, created_at
		FROM applications WHERE id = ?
	`, id)

	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query application: %w", err)
	}
	return a, nil
}

// ExistsForApplicant reports whether the user already applied to the listing
func (r *applicationRepo) ExistsForApplicant(ctx context.Context, listingID, applicantID int64) (bool, error) {
	var count int
	err := r.store.queryRow(ctx, `
		SELECT COUNT(*) FROM applications WHERE post_id = ? AND applicant_id = ?
	`, listingID, applicantID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return count > 0, nil
}

// Decide moves a pending application to status. Only one decision wins
// when two arrive together.
func (r *applicationRepo) Decide(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	result, err := r.store.exec(ctx, `
		UPDATE applications SET status = ? WHERE id = ? AND status = ?
	`, string(status), id, string(domain.ApplicationStatusPending))
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrStatusAlreadySet
}

// ListByApplicant lists the newest applications of a user with their listing
func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID int64, limit int) ([]*domain.ApplicationSummary, error) {
	rows, err := r.store.query(ctx, `
		SELECT a.id, a.post_id, a.applicant_id, a.message, a.proposed_price, a.status, a.created_at,
			p.title, p.location
		FROM applications a
		JOIN tevkil_posts p ON p.id = a.post_id
		WHERE a.applicant_id = ?
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ?
	`, applicantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var result []*domain.ApplicationSummary
	for rows.Next() {
		var title, location string
		a, err := scanApplication(rows, &title, &location)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		result = append(result, &domain.ApplicationSummary{
			Application:     a,
			ListingTitle:    title,
			ListingLocation: location,
		})
	}
	return result, rows.Err()
}

// CountByApplicant counts applications of a user
func (r *applicationRepo) CountByApplicant(ctx context.Context, applicantID int64) (int, error) {
	var count int
	err := r.store.queryRow(ctx, `SELECT COUNT(*) FROM applications WHERE applicant_id = ?`, applicantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// CountPendingForOwner counts pending applications on a user's listings
func (r *applicationRepo) CountPendingForOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.store.queryRow(ctx, `
		SELECT COUNT(*)
		FROM applications a
		JOIN tevkil_posts p ON p.id = a.post_id
		WHERE p.user_id = ? AND a.status = ?
	`, ownerID, string(domain.ApplicationStatusPending)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending applications: %w", err)
	}
	return count, nil
}
