package content

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/ziadkadry99/pagebuilder/internal/db"
)

// Store manages persistence of articles, categories and tags.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a new content store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// CreateCategory adds a new category. The alias defaults to a slug of the title.
func (s *Store) CreateCategory(ctx context.Context, c Category) (*Category, error) {
	if strings.TrimSpace(c.Title) == "" {
		return nil, fmt.Errorf("category title is required")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Alias == "" {
		c.Alias = slug.Make(c.Title)
	}
	c.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, title, alias, published, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Alias, c.Published, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting category: %w", err)
	}
	return &c, nil
}

// EnsureCategory returns the category with the given title, creating a
// published one when there is none.
func (s *Store) EnsureCategory(ctx context.Context, title string) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, alias, published, created_at FROM categories
		 WHERE title = ? COLLATE NOCASE ORDER BY created_at LIMIT 1`, title,
	).Scan(&c.ID, &c.Title, &c.Alias, &c.Published, &c.CreatedAt)
	if err == nil {
		return &c, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("looking up category: %w", err)
	}
	return s.CreateCategory(ctx, Category{Title: title, Published: true})
}

// ListCategories returns all categories ordered by title.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, alias, published, created_at FROM categories ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Alias, &c.Published, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// LookupCategoryID finds a published category by title, ignoring case.
func (s *Store) LookupCategoryID(ctx context.Context, title string) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE title = ? COLLATE NOCASE AND published = 1
		 ORDER BY created_at LIMIT 1`, strings.TrimSpace(title),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up category: %w", err)
	}
	return id, true, nil
}

// CreateArticle adds a new article with its tags. Missing tags are created.
func (s *Store) CreateArticle(ctx context.Context, a Article) (*Article, error) {
	if strings.TrimSpace(a.Title) == "" {
		return nil, fmt.Errorf("article title is required")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Alias == "" {
		a.Alias = slug.Make(a.Title)
	}
	if a.BodyFormat == "" {
		a.BodyFormat = FormatHTML
	}
	now := s.now().UTC()
	a.CreatedAt = now
	if a.PublishUp.IsZero() {
		a.PublishUp = now
	}
	a.PublishUp = a.PublishUp.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, alias, category_id, body, body_format, image, readmore_text, author, comment_count, published, publish_up, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Alias, nullString(a.CategoryID), a.Body, a.BodyFormat, a.Image, a.ReadMoreText, a.Author,
		nullInt(a.CommentCount), a.Published, a.PublishUp, a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting article: %w", err)
	}
	if a.Tags, err = setTags(ctx, tx, a.ID, a.Tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing article: %w", err)
	}
	return &a, nil
}

// UpdateArticle replaces an article's fields and tags. CreatedAt is kept.
func (s *Store) UpdateArticle(ctx context.Context, a Article) error {
	if a.BodyFormat == "" {
		a.BodyFormat = FormatHTML
	}
	if a.PublishUp.IsZero() {
		a.PublishUp = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE articles SET title = ?, alias = ?, category_id = ?, body = ?, body_format = ?, image = ?, readmore_text = ?,
		 author = ?, comment_count = ?, published = ?, publish_up = ? WHERE id = ?`,
		a.Title, a.Alias, nullString(a.CategoryID), a.Body, a.BodyFormat, a.Image, a.ReadMoreText,
		a.Author, nullInt(a.CommentCount), a.Published, a.PublishUp.UTC(), a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("article %s: %w", a.ID, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, a.ID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	if _, err := setTags(ctx, tx, a.ID, a.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing article: %w", err)
	}
	return nil
}

// SetPublished publishes or unpublishes an article.
func (s *Store) SetPublished(ctx context.Context, id string, published bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE articles SET published = ? WHERE id = ?`, published, id)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteArticle removes an article and its tag links.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetArticle retrieves an article by its ID, published or not. It returns
// nil when there is none.
func (s *Store) GetArticle(ctx context.Context, id string) (*Article, error) {
	return s.getOne(ctx, "a.id = ?", id)
}

// GetArticleByAlias retrieves an article by its alias. It returns nil when
// there is none.
func (s *Store) GetArticleByAlias(ctx context.Context, alias string) (*Article, error) {
	return s.getOne(ctx, "a.alias = ?", alias)
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (*Article, error) {
	articles, err := s.query(ctx, " AND "+where+" LIMIT 1", []any{arg})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return &articles[0], nil
}

// List returns articles matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Article, error) {
	var (
		where string
		args  []any
	)
	if filter.ID != "" {
		where += " AND a.id = ?"
		args = append(args, filter.ID)
	}
	if filter.CategoryID != "" {
		where += " AND a.category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if tags := cleanTags(filter.Tags); len(tags) > 0 {
		where += ` AND a.id IN (SELECT at.article_id FROM article_tags at JOIN tags t ON t.id = at.tag_id
			WHERE t.title COLLATE NOCASE IN (` + placeholders(len(tags)) + `))`
		for _, t := range tags {
			args = append(args, t)
		}
	}
	if filter.PublishedOnly {
		where += " AND a.published = 1 AND a.publish_up <= ? AND (a.category_id IS NULL OR c.published = 1)"
		args = append(args, s.now().UTC())
	}

	where += " ORDER BY a.publish_up DESC, a.created_at DESC, a.id"

	if filter.Limit > 0 {
		where += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	return s.query(ctx, where, args)
}

// query selects articles with a WHERE suffix and attaches their tags.
func (s *Store) query(ctx context.Context, suffix string, args []any) ([]Article, error) {
	articles, err := s.scanArticles(ctx,
		`SELECT a.id, a.title, a.alias, a.category_id, c.title, a.body, a.body_format, a.image, a.readmore_text,
		        a.author, a.comment_count, a.published, a.publish_up, a.created_at
		 FROM articles a LEFT JOIN categories c ON c.id = a.category_id
		 WHERE 1=1`+suffix, args)
	if err != nil || len(articles) == 0 {
		return articles, err
	}

	ids := make([]any, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}
	tags, err := s.tagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].Tags = tags[articles[i].ID]
	}
	return articles, nil
}

func (s *Store) scanArticles(ctx context.Context, query string, args []any) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		var categoryID, categoryTitle sql.NullString
		var comments sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Title, &a.Alias, &categoryID, &categoryTitle, &a.Body, &a.BodyFormat, &a.Image,
			&a.ReadMoreText, &a.Author, &comments, &a.Published, &a.PublishUp, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.CategoryID = categoryID.String
		a.CategoryTitle = categoryTitle.String
		if comments.Valid {
			n := int(comments.Int64)
			a.CommentCount = &n
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// tagsFor returns the tag titles of each article, ordered by title.
func (s *Store) tagsFor(ctx context.Context, ids []any) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT at.article_id, t.title FROM article_tags at JOIN tags t ON t.id = at.tag_id
		 WHERE at.article_id IN (`+placeholders(len(ids))+`) ORDER BY t.title`, ids...)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var articleID, title string
		if err := rows.Scan(&articleID, &title); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags[articleID] = append(tags[articleID], title)
	}
	return tags, rows.Err()
}

// ListTags returns every tag title.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title FROM tags ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// setTags links tags to an article inside tx, creating missing tags. It
// returns the cleaned tag list.
func setTags(ctx context.Context, tx *sql.Tx, articleID string, tags []string) ([]string, error) {
	tags = cleanTags(tags)
	for _, title := range tags {
		var tagID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE title = ? COLLATE NOCASE`, title).Scan(&tagID)
		if err == sql.ErrNoRows {
			tagID = uuid.New().String()
			if _, err := tx.ExecContext(ctx, `INSERT INTO tags (id, title) VALUES (?, ?)`, tagID, title); err != nil {
				return nil, fmt.Errorf("inserting tag %q: %w", title, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("looking up tag %q: %w", title, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_tags (article_id, tag_id) VALUES (?, ?)`, articleID, tagID); err != nil {
			return nil, fmt.Errorf("linking tag %q: %w", title, err)
		}
	}
	return tags, nil
}

// cleanTags trims tags and drops empty and case-insensitive duplicates.
func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
