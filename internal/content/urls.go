package content

import (
	"net/url"
	"strings"

	"github.com/gosimple/slug"
)

// URLBuilder builds public URLs of articles, tags and categories.
type URLBuilder struct {
	base string
}

// NewURLBuilder creates a URLBuilder rooted at base, e.g. https://example.com.
func NewURLBuilder(base string) *URLBuilder {
	return &URLBuilder{base: strings.TrimRight(base, "/")}
}

// ItemURL returns the URL of an article known only by id.
func (u *URLBuilder) ItemURL(id string) string {
	return u.base + "/articles/" + url.PathEscape(id)
}

// ArticleURL returns the canonical URL of an article: /articles/{id}-{slug}.
func (u *URLBuilder) ArticleURL(id, alias string) string {
	s := slug.Make(alias)
	if s == "" {
		return u.ItemURL(id)
	}
	return u.ItemURL(id) + "-" + s
}

// TagURL returns the URL of a tag's listing.
func (u *URLBuilder) TagURL(tag string) string {
	return u.base + "/tags/" + slug.Make(tag)
}

// CategoryURL returns the URL of a category's listing.
func (u *URLBuilder) CategoryURL(title string) string {
	return u.base + "/categories/" + slug.Make(title)
}

// EditURL returns the URL of an article's edit screen.
func (u *URLBuilder) EditURL(id string) string {
	return u.base + "/admin/articles/" + url.PathEscape(id) + "/edit"
}
