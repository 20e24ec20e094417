package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/pagebuilder/internal/db"
)

// Store provides persistence for audit entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new audit entry. ID and Timestamp are filled when empty.
// A nil Store discards the entry.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if s == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.ActorType == "" {
		entry.ActorType = ActorSystem
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, timestamp, actor_type, actor_id, action, subject, subject_id, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp.UTC(), string(entry.ActorType), entry.ActorID,
		string(entry.Action), string(entry.Subject), entry.SubjectID, entry.Summary,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single audit entry. It returns nil when there is none.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	entries, err := s.query(ctx, " WHERE id = ?", []any{id})
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// QueryFilter controls which audit entries Query returns.
type QueryFilter struct {
	Subject   Subject
	SubjectID string
	Action    Action
	Since     *time.Time
	Limit     int
}

// Query returns audit entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Subject != "" {
		clauses = append(clauses, "subject = ?")
		args = append(args, string(filter.Subject))
	}
	if filter.SubjectID != "" {
		clauses = append(clauses, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}

	var suffix string
	if len(clauses) > 0 {
		suffix = " WHERE " + strings.Join(clauses, " AND ")
	}
	suffix += " ORDER BY timestamp DESC, id"
	if filter.Limit > 0 {
		suffix += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	return s.query(ctx, suffix, args)
}

func (s *Store) query(ctx context.Context, suffix string, args []any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, actor_type, actor_id, action, subject, subject_id, summary FROM audit_entries`+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                         Entry
			actorType, action, subj   string
			subjectID, actor, summary sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &actorType, &actor, &action, &subj, &subjectID, &summary); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.ActorType, e.Action, e.Subject = ActorType(actorType), Action(action), Subject(subj)
		e.ActorID, e.SubjectID, e.Summary = actor.String, subjectID.String, summary.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes entries older than before and returns how many.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit_entries WHERE timestamp < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}
