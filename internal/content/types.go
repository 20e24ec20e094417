package content

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an article or category does not exist.
var ErrNotFound = errors.New("content: not found")

// BodyFormat is the markup an article body is stored in.
type BodyFormat string

const (
	FormatHTML     BodyFormat = "html"
	FormatMarkdown BodyFormat = "markdown"
)

// Category groups articles. Listings select a category by its title.
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Alias     string    `json:"alias"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// Article is a content item that listings render.
type Article struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Alias         string     `json:"alias"`
	CategoryID    string     `json:"category_id,omitempty"`
	CategoryTitle string     `json:"category_title,omitempty"`
	Body          string     `json:"body"`
	BodyFormat    BodyFormat `json:"body_format"`
	Image         string     `json:"image,omitempty"`
	ReadMoreText  string     `json:"readmore_text,omitempty"`
	Author        string     `json:"author,omitempty"`
	// CommentCount is nil when comments are not tracked for the article.
	CommentCount *int      `json:"comment_count,omitempty"`
	Published    bool      `json:"published"`
	PublishUp    time.Time `json:"publish_up"`
	CreatedAt    time.Time `json:"created_at"`
	Tags         []string  `json:"tags,omitempty"`
}

// ListFilter selects articles. Results are ordered newest first.
type ListFilter struct {
	ID         string
	CategoryID string
	// Tags matches articles carrying any of the tags.
	Tags []string
	// PublishedOnly hides unpublished articles and those scheduled in the future.
	PublishedOnly bool
	Limit         int
}
