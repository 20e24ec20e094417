package pages

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/pagebuilder/internal/db"
)

// Store manages persistence of pages.
type Store struct {
	db *db.DB
}

// NewStore creates a new pages store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create adds a new page.
func (s *Store) Create(ctx context.Context, p Page) (*Page, error) {
	if strings.TrimSpace(p.HTML) == "" {
		return nil, fmt.Errorf("page html is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (id, title, html, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.HTML, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting page: %w", err)
	}
	return &p, nil
}

// Update replaces a page's title and HTML.
func (s *Store) Update(ctx context.Context, p Page) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE pages SET title = ?, html = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.HTML, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating page: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("page %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a page by its ID. It returns nil when there is none.
func (s *Store) GetByID(ctx context.Context, id string) (*Page, error) {
	var p Page
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, html, created_at, updated_at FROM pages WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.HTML, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying page: %w", err)
	}
	return &p, nil
}

// List returns all pages without their HTML, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM pages ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Delete removes a page.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	return nil
}
