package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects SQL differences between the supported databases
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Store owns the marketplace database connection
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// OpenStore opens PostgreSQL when databaseURL is a postgres URL,
// otherwise the SQLite file at sqlitePath.
func OpenStore(databaseURL, sqlitePath string) (*Store, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return &Store{db: db, dialect: DialectPostgres}, nil
	}

	// Ensure directory exists
	dir := filepath.Dir(sqlitePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Store{db: db, dialect: DialectSQLite}, nil
}

// Dialect returns the database dialect
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Migrate creates or updates the schema
func (s *Store) Migrate(ctx context.Context) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == DialectPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + idColumn + `,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			whatsapp_number TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone)`,
		`CREATE INDEX IF NOT EXISTS idx_users_whatsapp_number ON users(whatsapp_number)`,
		`CREATE TABLE IF NOT EXISTS tevkil_posts (
			id ` + idColumn + `,
			user_id BIGINT NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			urgency_level TEXT NOT NULL DEFAULT 'normal',
			location TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			courthouse TEXT NOT NULL DEFAULT '',
			price_min DOUBLE PRECISION NOT NULL DEFAULT 0,
			price_max DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			assigned_to BIGINT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_status ON tevkil_posts(user_id, status)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id ` + idColumn + `,
			post_id BIGINT NOT NULL REFERENCES tevkil_posts(id),
			applicant_id BIGINT NOT NULL REFERENCES users(id),
			message TEXT NOT NULL DEFAULT '',
			proposed_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_post ON applications(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id)`,
		// One application per lawyer per listing
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_post_applicant ON applications(post_id, applicant_id)`,
	}

	// Databases created before listings carried an assignee.
	// Errors are ignored because the column may already exist.
	_, _ = s.db.ExecContext(ctx, `ALTER TABLE tevkil_posts ADD COLUMN assigned_to BIGINT NOT NULL DEFAULT 0`)

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id
func (s *Store) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
