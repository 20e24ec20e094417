package audit

import "time"

// ActorType identifies who performed an action.
type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorSystem ActorType = "system"
)

// Action describes what was done.
type Action string

const (
	ActionPageCreated        Action = "page_created"
	ActionPageUpdated        Action = "page_updated"
	ActionPageDeleted        Action = "page_deleted"
	ActionArticleImported    Action = "article_imported"
	ActionArticleUpdated     Action = "article_updated"
	ActionArticlePublished   Action = "article_published"
	ActionArticleUnpublished Action = "article_unpublished"
)

// Subject is the kind of record an action touched.
type Subject string

const (
	SubjectPage    Subject = "page"
	SubjectArticle Subject = "article"
)

// Entry is a single audit trail record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ActorType ActorType `json:"actor_type"`
	ActorID   string    `json:"actor_id"`
	Action    Action    `json:"action"`
	Subject   Subject   `json:"subject"`
	SubjectID string    `json:"subject_id"`
	Summary   string    `json:"summary"`
}
