package content

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/maruel/natural"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagebuilder/internal/listing"
)

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	// ShowEditLink fills the edit metadata of every item.
	ShowEditLink bool
	Logger       *zap.Logger
}

// Provider serves published articles to the listing renderer.
type Provider struct {
	store        *Store
	urls         *URLBuilder
	md           goldmark.Markdown
	policy       *bluemonday.Policy
	showEditLink bool
	log          *zap.Logger
}

var _ listing.Source = (*Provider)(nil)

// NewProvider creates a Provider over store.
func NewProvider(store *Store, urls *URLBuilder, opts ProviderOptions) *Provider {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Provider{
		store:        store,
		urls:         urls,
		md:           md,
		policy:       bodyPolicy(),
		showEditLink: opts.ShowEditLink,
		log:          log.Named("content"),
	}
}

// bodyPolicy allows user-generated markup plus the classes the highlighter
// and page builder put on elements.
func bodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}

// LookupCategoryID implements listing.Source.
func (p *Provider) LookupCategoryID(ctx context.Context, name string) (string, bool, error) {
	return p.store.LookupCategoryID(ctx, name)
}

// ItemsByCategory implements listing.Source.
func (p *Provider) ItemsByCategory(ctx context.Context, categoryID string, limit int) ([]listing.RawItem, error) {
	return p.list(ctx, ListFilter{CategoryID: categoryID, Limit: limit})
}

// ItemsByTags implements listing.Source.
func (p *Provider) ItemsByTags(ctx context.Context, tags []string, limit int) ([]listing.RawItem, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return p.list(ctx, ListFilter{Tags: tags, Limit: limit})
}

// ItemByID implements listing.Source. Unpublished articles are not found.
func (p *Provider) ItemByID(ctx context.Context, id string) (listing.RawItem, bool, error) {
	items, err := p.list(ctx, ListFilter{ID: id, Limit: 1})
	if err != nil || len(items) == 0 {
		return listing.RawItem{}, false, err
	}
	return items[0], true, nil
}

// RecentItems implements listing.Source.
func (p *Provider) RecentItems(ctx context.Context, limit int) ([]listing.RawItem, error) {
	return p.list(ctx, ListFilter{Limit: limit})
}

func (p *Provider) list(ctx context.Context, filter ListFilter) ([]listing.RawItem, error) {
	filter.PublishedOnly = true
	articles, err := p.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]listing.RawItem, 0, len(articles))
	for _, a := range articles {
		item, err := p.RawItem(a)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// RawItem maps an article to the renderer's item shape.
func (p *Provider) RawItem(a Article) (listing.RawItem, error) {
	body, err := p.RenderBody(a)
	if err != nil {
		return listing.RawItem{}, fmt.Errorf("rendering article %s: %w", a.ID, err)
	}
	item := listing.RawItem{
		ID:           a.ID,
		Title:        a.Title,
		Link:         p.urls.ArticleURL(a.ID, a.Alias),
		Content:      body,
		Image:        a.Image,
		ReadMore:     a.ReadMoreText,
		Date:         a.PublishUp,
		Author:       a.Author,
		CommentCount: a.CommentCount,
		Tags:         p.tagsMarkup(a.Tags),
	}
	if a.CategoryTitle != "" {
		item.Category = link(p.urls.CategoryURL(a.CategoryTitle), "u-category", a.CategoryTitle)
	}
	if p.showEditLink {
		item.EditLink = link(p.urls.EditURL(a.ID), "u-edit", "Edit")
	}
	return item, nil
}

// RenderBody returns an article's body as sanitized HTML.
func (p *Provider) RenderBody(a Article) (string, error) {
	body := a.Body
	if a.BodyFormat == FormatMarkdown {
		var buf bytes.Buffer
		if err := p.md.Convert([]byte(a.Body), &buf); err != nil {
			return "", fmt.Errorf("converting markdown: %w", err)
		}
		body = buf.String()
	}
	clean := p.policy.Sanitize(body)
	if len(clean) < len(body) && a.BodyFormat == FormatHTML {
		p.log.Debug("article body sanitized", zap.String("article", a.ID), zap.Int("removed_bytes", len(body)-len(clean)))
	}
	return strings.TrimSpace(clean), nil
}

// tagsMarkup renders tag links in natural order.
func (p *Provider) tagsMarkup(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	sorted := append([]string(nil), tags...)
	sort.Sort(natural.StringSlice(sorted))
	links := make([]string, len(sorted))
	for i, t := range sorted {
		links[i] = link(p.urls.TagURL(t), "u-tag", t)
	}
	return strings.Join(links, ", ")
}

func link(href, class, text string) string {
	return `<a class="` + class + `" href="` + html.EscapeString(href) + `">` + html.EscapeString(text) + `</a>`
}
