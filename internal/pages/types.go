package pages

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a page does not exist.
var ErrNotFound = errors.New("page not found")

// Page is a stored page-builder document with listing markers in its HTML.
type Page struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	HTML      string    `json:"html,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RenderRequest asks to render an ad-hoc page.
type RenderRequest struct {
	HTML     string `json:"html"`
	Offset   int    `json:"offset"`
	PageID   string `json:"page_id"`
	Position int    `json:"position"`
}

// RenderResponse carries rendered HTML.
type RenderResponse struct {
	HTML string `json:"html"`
}
