package importers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ziadkadry99/pagebuilder/internal/db"
)

// Store tracks imported source files.
type Store struct {
	db *db.DB
}

// NewStore creates a new importers store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get returns the record of a source path, or nil when it was never imported.
func (s *Store) Get(ctx context.Context, path string) (*ImportedFile, error) {
	var f ImportedFile
	err := s.db.QueryRowContext(ctx,
		`SELECT path, content_hash, article_id, imported_at FROM import_files WHERE path = ?`, path,
	).Scan(&f.Path, &f.ContentHash, &f.ArticleID, &f.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying import record: %w", err)
	}
	return &f, nil
}

// Save inserts or replaces the record of a source path.
func (s *Store) Save(ctx context.Context, f ImportedFile) error {
	if f.ImportedAt.IsZero() {
		f.ImportedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_files (path, content_hash, article_id, imported_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET content_hash = excluded.content_hash,
		 article_id = excluded.article_id, imported_at = excluded.imported_at`,
		f.Path, f.ContentHash, f.ArticleID, f.ImportedAt,
	)
	if err != nil {
		return fmt.Errorf("saving import record: %w", err)
	}
	return nil
}

// List returns all import records ordered by path.
func (s *Store) List(ctx context.Context) ([]ImportedFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, content_hash, article_id, imported_at FROM import_files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing import records: %w", err)
	}
	defer rows.Close()

	var files []ImportedFile
	for rows.Next() {
		var f ImportedFile
		if err := rows.Scan(&f.Path, &f.ContentHash, &f.ArticleID, &f.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning import record: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
