package listing

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
)

// TaskBlogPosts is the task name pagination links ask the host to run.
const TaskBlogPosts = "blogposts"

// RequestContext carries the request parameters that drive pagination.
type RequestContext struct {
	// Offset is the index of the first item on the requested page.
	Offset int
	// PageID identifies the page being rendered; Options.PageID is used when empty.
	PageID string
	// Position addresses one listing block on the page (1-based). When set,
	// Offset applies to that block only. Zero applies Offset to every block.
	Position int
}

// PaginationContext is everything pagination controls need for one block.
// It exists only when a block has more candidates than its page size.
type PaginationContext struct {
	TotalItems     int    `json:"allPosts"`
	Offset         int    `json:"offset"`
	PageSize       int    `json:"postsPerPage"`
	PageID         string `json:"pageId"`
	PositionOnPage int    `json:"positionOnPage"`
	Task           string `json:"task"`
}

// PageRequest describes the page of a block to cut out of its candidates.
type PageRequest struct {
	Size     int
	Offset   int
	PageID   string
	Position int
}

// Paginate returns the visible slice of all. Without a page size, or when
// all fits on one page, every item is visible and there is no context.
// An offset past the end gives an empty slice.
func Paginate(all []ItemRecord, req PageRequest) ([]ItemRecord, *PaginationContext) {
	if req.Size <= 0 || len(all) <= req.Size {
		return all, nil
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	start := min(offset, len(all))
	end := min(start+req.Size, len(all))

	return all[start:end], &PaginationContext{
		TotalItems:     len(all),
		Offset:         offset,
		PageSize:       req.Size,
		PageID:         req.PageID,
		PositionOnPage: req.Position,
		Task:           TaskBlogPosts,
	}
}

// FetchOne returns the item at a 1-based position of a block's unsliced
// candidate list.
func FetchOne(all []ItemRecord, position int) (ItemRecord, bool) {
	if position < 1 || position > len(all) {
		return ItemRecord{}, false
	}
	return all[position-1], true
}

// TotalPages returns the number of pages.
func (p PaginationContext) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	return (p.TotalItems + p.PageSize - 1) / p.PageSize
}

// CurrentPage returns the 1-based page the offset falls on.
func (p PaginationContext) CurrentPage() int {
	if p.PageSize <= 0 {
		return 1
	}
	return p.Offset/p.PageSize + 1
}

// OffsetForPage returns the offset of a 1-based page.
func (p PaginationContext) OffsetForPage(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize
}

// Window returns up to size consecutive page numbers around the current page.
func (p PaginationContext) Window(size int) []int {
	total := p.TotalPages()
	if size <= 0 || size > total {
		size = total
	}
	first := p.CurrentPage() - size/2
	if first > total-size+1 {
		first = total - size + 1
	}
	if first < 1 {
		first = 1
	}
	pages := make([]int, 0, size)
	for n := first; n < first+size; n++ {
		pages = append(pages, n)
	}
	return pages
}

// PaginationRenderer renders the pagination controls of a block. options is
// the decoded blog_pagination_options_json payload, or nil.
type PaginationRenderer interface {
	RenderPagination(pc PaginationContext, options json.RawMessage) string
}

// LinkBuilder builds the URL that loads a block at an offset.
type LinkBuilder func(pc PaginationContext, offset int) string

// QueryLink is the default LinkBuilder: a relative query string carrying the
// offset, page id, block position and task.
func QueryLink(pc PaginationContext, offset int) string {
	v := url.Values{}
	v.Set("offset", strconv.Itoa(offset))
	v.Set("pageId", pc.PageID)
	v.Set("position", strconv.Itoa(pc.PositionOnPage))
	v.Set("task", pc.Task)
	return "?" + v.Encode()
}

// DefaultWindow is the number of page links DefaultPagination shows.
const DefaultWindow = 5

// DefaultPagination renders first, previous, a window of page numbers, next
// and last links.
type DefaultPagination struct {
	Links  LinkBuilder
	Window int
}

type paginationLabels struct {
	First string `json:"firstText"`
	Prev  string `json:"prevText"`
	Next  string `json:"nextText"`
	Last  string `json:"lastText"`
}

func (l *paginationLabels) merge(custom paginationLabels) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = html.EscapeString(v)
		}
	}
	set(&l.First, custom.First)
	set(&l.Prev, custom.Prev)
	set(&l.Next, custom.Next)
	set(&l.Last, custom.Last)
}

// RenderPagination implements PaginationRenderer.
func (d DefaultPagination) RenderPagination(pc PaginationContext, options json.RawMessage) string {
	links := d.Links
	if links == nil {
		links = QueryLink
	}
	window := d.Window
	if window <= 0 {
		window = DefaultWindow
	}
	labels := paginationLabels{First: "&laquo;", Prev: "&lsaquo;", Next: "&rsaquo;", Last: "&raquo;"}
	if len(options) > 0 {
		var custom paginationLabels
		if err := json.Unmarshal(options, &custom); err == nil {
			labels.merge(custom)
		}
	}

	current, total := pc.CurrentPage(), pc.TotalPages()
	var sb strings.Builder
	fmt.Fprintf(&sb, `<ul class="u-pagination" data-page-id="%s" data-position="%d">`,
		html.EscapeString(pc.PageID), pc.PositionOnPage)
	item := func(page int, label, class string) {
		href := html.EscapeString(links(pc, pc.OffsetForPage(page)))
		fmt.Fprintf(&sb, `<li class="u-pagination-item%s"><a class="u-pagination-link" href="%s">%s</a></li>`, class, href, label)
	}
	if current > 1 {
		item(1, labels.First, " u-pagination-first")
		item(current-1, labels.Prev, " u-pagination-prev")
	}
	for _, n := range pc.Window(window) {
		class := ""
		if n == current {
			class = " active"
		}
		item(n, strconv.Itoa(n), class)
	}
	if current < total {
		item(current+1, labels.Next, " u-pagination-next")
		item(total, labels.Last, " u-pagination-last")
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}
