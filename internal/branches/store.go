// Package branches persists a tenant's branch locations locally. Branches
// are an owned child collection managed outside the tenant API; records get
// generated ULID identifiers and live in a SQLite database under the
// toolkit's data directory.
package branches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a branch id does not exist.
var ErrNotFound = errors.New("branch not found")

// Branch is a tenant's physical location.
type Branch struct {
	ID              string
	TenantID        int
	ArabicName      string
	EnglishName     string
	ArabicLocation  string
	EnglishLocation string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Store provides CRUD over the local branch database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the branch database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "branches.db")
	dsn := dbPath + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(30000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open branch db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS branches (
		id               TEXT PRIMARY KEY,
		tenant_id        INTEGER NOT NULL,
		arabic_name      TEXT NOT NULL DEFAULT '',
		english_name     TEXT NOT NULL DEFAULT '',
		arabic_location  TEXT NOT NULL DEFAULT '',
		english_location TEXT NOT NULL DEFAULT '',
		created_at       INTEGER NOT NULL,
		updated_at       INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_branches_tenant_id ON branches(tenant_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init branch schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a branch, assigning it a ULID.
func (s *Store) Create(ctx context.Context, b Branch) (Branch, error) {
	now := time.Now().UTC()
	b.ID = ulid.Make().String()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO branches (
			id, tenant_id, arabic_name, english_name,
			arabic_location, english_location, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TenantID, b.ArabicName, b.EnglishName,
		b.ArabicLocation, b.EnglishLocation, b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
	)
	if err != nil {
		return Branch{}, fmt.Errorf("insert branch: %w", err)
	}
	return b, nil
}

// Get fetches a branch by id.
func (s *Store) Get(ctx context.Context, id string) (Branch, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, arabic_name, english_name,
		       arabic_location, english_location, created_at, updated_at
		FROM branches WHERE id = ?`, id)
	return scanBranch(row)
}

// ListByTenant returns the tenant's branches, newest first.
func (s *Store) ListByTenant(ctx context.Context, tenantID int) ([]Branch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, arabic_name, english_name,
		       arabic_location, english_location, created_at, updated_at
		FROM branches WHERE tenant_id = ? ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	branches := []Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// Update rewrites a branch's editable fields.
func (s *Store) Update(ctx context.Context, b Branch) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE branches SET
			arabic_name = ?, english_name = ?,
			arabic_location = ?, english_location = ?, updated_at = ?
		WHERE id = ?`,
		b.ArabicName, b.EnglishName, b.ArabicLocation, b.EnglishLocation,
		time.Now().UTC().Unix(), b.ID,
	)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a branch.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM branches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByTenant removes all branches owned by a tenant, returning the count.
func (s *Store) DeleteByTenant(ctx context.Context, tenantID int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM branches WHERE tenant_id = ?`, tenantID)
	if err != nil {
		return 0, fmt.Errorf("delete tenant branches: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBranch(row scanner) (Branch, error) {
	var b Branch
	var created, updated int64
	err := row.Scan(&b.ID, &b.TenantID, &b.ArabicName, &b.EnglishName,
		&b.ArabicLocation, &b.EnglishLocation, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Branch{}, ErrNotFound
		}
		return Branch{}, fmt.Errorf("scan branch: %w", err)
	}
	b.CreatedAt = time.Unix(created, 0).UTC()
	b.UpdatedAt = time.Unix(updated, 0).UTC()
	return b, nil
}
