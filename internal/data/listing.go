package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

const listingColumns = `p.id, p.user_id, p.title, p.description, p.category, p.urgency_level, p.location, p.city,
	p.courthouse, p.price_min, p.price_max, p.status, p.assigned_to, p.created_at, p.expires_at`

// listingRepo implements the Listing repository
type listingRepo struct {
	store *Store
}

// NewListingRepo creates a new Listing repository
func NewListingRepo(store *Store) repo.ListingRepo {
	return &listingRepo{store: store}
}

func scanListing(row rowScanner, extra ...any) (*domain.Listing, error) {
	var l domain.Listing
	var urgency, status string
	var createdAt, expiresAt int64
	dest := []any{
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.Category, &urgency, &l.Location, &l.City,
		&l.Courthouse, &l.PriceMin, &l.PriceMax, &status, &l.AssignedTo, &createdAt, &expiresAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	l.Urgency = domain.Urgency(urgency)
	l.Status = domain.ListingStatus(status)
	l.CreatedAt = time.Unix(createdAt, 0)
	if expiresAt > 0 {
		l.ExpiresAt = time.Unix(expiresAt, 0)
	}
	return &l, nil
}

// Create persists a listing
func (r *listingRepo) Create(ctx context.Context, l *domain.Listing) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	if l.Status == "" {
		l.Status = domain.ListingStatusActive
	}
	var expiresAt int64
	if !l.ExpiresAt.IsZero() {
		expiresAt = l.ExpiresAt.Unix()
	}

	id, err := r.store.insert(ctx, `
		INSERT INTO tevkil_posts (user_id, title, description, category, urgency_level, location, city,
			courthouse, price_min, price_max, status, assigned_to, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.UserID, l.Title, l.Description, l.Category, string(l.Urgency), l.Location, l.City,
		l.Courthouse, l.PriceMin, l.PriceMax, string(l.Status), l.AssignedTo, l.CreatedAt.Unix(), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	l.ID = id
	return nil
}

// GetByID gets a listing by ID
func (r *listingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	row := r.store.queryRow(ctx, `SELECT `+listingColumns+` FROM tevkil_posts p WHERE p.id = ?`, id)

	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}
	return l, nil
}

// Assign marks an active listing as assigned to assigneeID
func (r *listingRepo) Assign(ctx context.Context, id, assigneeID int64) error {
	result, err := r.store.exec(ctx, `
		UPDATE tevkil_posts SET status = ?, assigned_to = ? WHERE id = ? AND status = ?
	`, string(domain.ListingStatusAssigned), assigneeID, id, string(domain.ListingStatusActive))
	if err != nil {
		return fmt.Errorf("failed to assign listing: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrListingClosed
}

// ListActiveByOwner lists the newest active listings of a user with their application counts
func (r *listingRepo) ListActiveByOwner(ctx context.Context, userID int64, limit int) ([]*domain.ListingSummary, error) {
	rows, err := r.store.query(ctx, `
		SELECT `+listingColumns+`,
			(SELECT COUNT(*) FROM applications a WHERE a.post_id = p.id)
		FROM tevkil_posts p
		WHERE p.user_id = ? AND p.status = ?
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?
	`, userID, string(domain.ListingStatusActive), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var result []*domain.ListingSummary
	for rows.Next() {
		var count int
		l, err := scanListing(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		result = append(result, &domain.ListingSummary{Listing: l, ApplicationCount: count})
	}
	return result, rows.Err()
}

// CountActiveByOwner counts active listings of a user
func (r *listingRepo) CountActiveByOwner(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.store.queryRow(ctx, `
		SELECT COUNT(*) FROM tevkil_posts WHERE user_id = ? AND status = ?
	`, userID, string(domain.ListingStatusActive)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}
