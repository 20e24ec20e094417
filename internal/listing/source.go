package listing

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// SourceKind selects how a listing finds its items.
type SourceKind int

const (
	// SourceRecent lists the most recent published items.
	SourceRecent SourceKind = iota
	// SourceItem shows one explicit item.
	SourceItem
	// SourceTags lists items carrying any of a set of tags.
	SourceTags
	// SourceCategory lists items of a category looked up by name.
	SourceCategory
)

func (k SourceKind) String() string {
	switch k {
	case SourceRecent:
		return "recent"
	case SourceItem:
		return "item"
	case SourceTags:
		return "tags"
	case SourceCategory:
		return "category"
	default:
		return "unknown"
	}
}

const (
	itemPrefix = "postId:"
	tagsPrefix = "tags:"
)

// SourceDescriptor says which items a listing shows.
type SourceDescriptor struct {
	Kind     SourceKind
	ItemID   string
	Tags     []string
	Category string
}

// RecentItems returns the descriptor for the most recent items.
func RecentItems() SourceDescriptor { return SourceDescriptor{Kind: SourceRecent} }

// ExplicitItem returns the descriptor for a single item.
func ExplicitItem(id string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceItem, ItemID: strings.TrimSpace(id)}
}

// TagSet returns the descriptor for items carrying any of tags.
func TagSet(tags ...string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceTags, Tags: cleanTags(tags)}
}

// CategoryName returns the descriptor for a named category.
func CategoryName(name string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceCategory, Category: strings.TrimSpace(name)}
}

// ParseSource parses the builder's source string: "postId:42",
// "tags:news,sport", a category name, or "" for recent items.
func ParseSource(raw string) SourceDescriptor {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return RecentItems()
	case strings.HasPrefix(raw, itemPrefix):
		return ExplicitItem(strings.TrimPrefix(raw, itemPrefix))
	case strings.HasPrefix(raw, tagsPrefix):
		return TagSet(strings.Split(strings.TrimPrefix(raw, tagsPrefix), ",")...)
	default:
		return CategoryName(raw)
	}
}

// String formats the descriptor back into the builder's source syntax.
func (d SourceDescriptor) String() string {
	switch d.Kind {
	case SourceItem:
		return itemPrefix + d.ItemID
	case SourceTags:
		return tagsPrefix + strings.Join(d.Tags, ",")
	case SourceCategory:
		return d.Category
	default:
		return ""
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Source is the content store the renderer reads items from. Lists are
// ordered newest first and contain published items only. A limit of 0 means
// no limit.
type Source interface {
	LookupCategoryID(ctx context.Context, name string) (id string, ok bool, err error)
	ItemsByCategory(ctx context.Context, categoryID string, limit int) ([]RawItem, error)
	ItemsByTags(ctx context.Context, tags []string, limit int) ([]RawItem, error)
	ItemByID(ctx context.Context, id string) (item RawItem, ok bool, err error)
	RecentItems(ctx context.Context, limit int) ([]RawItem, error)
}

// URLBuilder builds the public URL of an item.
type URLBuilder interface {
	ItemURL(id string) string
}

// DefaultDateFormat is used when a Resolver has no date format.
const DefaultDateFormat = "January 2, 2006"

// Resolver turns source descriptors into item records.
type Resolver struct {
	source     Source
	urls       URLBuilder
	dateFormat string
}

// NewResolver creates a Resolver. dateFormat is a Go time layout.
func NewResolver(source Source, urls URLBuilder, dateFormat string) *Resolver {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return &Resolver{source: source, urls: urls, dateFormat: dateFormat}
}

// Resolve returns the items d selects. maxCount bounds the underlying fetch;
// 0 fetches everything. A descriptor that matches nothing, including an
// unknown category or an empty tag set, yields no items and no error.
func (r *Resolver) Resolve(ctx context.Context, d SourceDescriptor, maxCount int) ([]ItemRecord, error) {
	if maxCount < 0 {
		maxCount = 0
	}

	var (
		raw []RawItem
		err error
	)
	switch d.Kind {
	case SourceItem:
		if d.ItemID == "" {
			return nil, nil
		}
		item, ok, ferr := r.source.ItemByID(ctx, d.ItemID)
		if ferr != nil {
			return nil, fmt.Errorf("fetching item %s: %w", d.ItemID, ferr)
		}
		if ok {
			raw = []RawItem{item}
		}
	case SourceTags:
		if len(d.Tags) == 0 {
			return nil, nil
		}
		raw, err = r.source.ItemsByTags(ctx, d.Tags, maxCount)
		if err != nil {
			return nil, fmt.Errorf("fetching items by tags: %w", err)
		}
	case SourceCategory:
		if d.Category == "" {
			return nil, nil
		}
		id, ok, lerr := r.source.LookupCategoryID(ctx, d.Category)
		if lerr != nil {
			return nil, fmt.Errorf("looking up category %q: %w", d.Category, lerr)
		}
		if !ok {
			return nil, nil
		}
		raw, err = r.source.ItemsByCategory(ctx, id, maxCount)
		if err != nil {
			return nil, fmt.Errorf("fetching items of category %q: %w", d.Category, err)
		}
	default:
		raw, err = r.source.RecentItems(ctx, maxCount)
		if err != nil {
			return nil, fmt.Errorf("fetching recent items: %w", err)
		}
	}

	if maxCount > 0 && len(raw) > maxCount {
		raw = raw[:maxCount]
	}
	items := make([]ItemRecord, 0, len(raw))
	for _, ri := range raw {
		items = append(items, r.record(ri))
	}
	return items, nil
}

// record maps a raw item to display fields. Zero values are left absent so
// the template keeps its defaults.
func (r *Resolver) record(ri RawItem) ItemRecord {
	f := make(map[Field]string, 12)

	link := ri.Link
	if link == "" && r.urls != nil && ri.ID != "" {
		link = r.urls.ItemURL(ri.ID)
	}
	if ri.Title != "" {
		f[FieldHeader] = html.EscapeString(ri.Title)
	}
	if link != "" {
		f[FieldHeaderLink] = link
		f[FieldReadmoreLink] = link
	}
	if ri.Content != "" {
		f[FieldContent] = ri.Content
	}
	if ri.Image != "" {
		f[FieldImage] = ri.Image
	}
	if ri.ReadMore != "" {
		f[FieldReadmoreText] = html.EscapeString(ri.ReadMore)
	}
	if !ri.Date.IsZero() {
		f[MetadataDate.Field()] = ri.Date.Format(r.dateFormat)
	}
	if ri.Author != "" {
		f[MetadataAuthor.Field()] = html.EscapeString(ri.Author)
	}
	if ri.Category != "" {
		f[MetadataCategory.Field()] = ri.Category
	}
	if ri.CommentCount != nil {
		f[MetadataComments.Field()] = strconv.Itoa(*ri.CommentCount)
	}
	if ri.EditLink != "" {
		f[MetadataEdit.Field()] = ri.EditLink
	}
	if ri.Tags != "" {
		f[FieldTags] = ri.Tags
	}
	return ItemRecord{id: ri.ID, fields: f}
}
