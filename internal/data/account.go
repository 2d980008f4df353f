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

const accountColumns = `id, email, full_name, phone, whatsapp_number, city, verified, is_active, created_at`

// accountRepo implements the Account repository
type accountRepo struct {
	store *Store
}

// NewAccountRepo creates a new Account repository
func NewAccountRepo(store *Store) repo.AccountRepo {
	return &accountRepo{store: store}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var createdAt int64
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.Phone, &a.WhatsAppNumber, &a.City, &a.Verified, &a.Active, &createdAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

// FindByPhone looks up an account by phone or whatsapp number
func (r *accountRepo) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	row := r.store.queryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE phone = ? OR (whatsapp_number <> '' AND whatsapp_number = ?)
		ORDER BY id
		LIMIT 1
	`, phone, phone)

	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// GetByID gets an account by ID
func (r *accountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.store.queryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = ?`, id)

	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// Create creates an account
func (r *accountRepo) Create(ctx context.Context, a *domain.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	existing, err := r.FindByPhone(ctx, a.Phone)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicatePhone
	}

	id, err := r.store.insert(ctx, `
		INSERT INTO users (email, full_name, phone, whatsapp_number, city, verified, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Email, a.FullName, a.Phone, a.WhatsAppNumber, a.City, a.Verified, a.Active, a.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("email %s already registered: %w", a.Email, err)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	a.ID = id
	return nil
}

// ListActiveInCity lists active accounts in a city
func (r *accountRepo) ListActiveInCity(ctx context.Context, city string, excludeID int64, limit int) ([]*domain.Account, error) {
	rows, err := r.store.query(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE city = ? AND id <> ? AND is_active = ?
		ORDER BY id
		LIMIT ?
	`, city, excludeID, true, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
