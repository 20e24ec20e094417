package listing

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const itemTemplate = `<!--blog_post--><div class="u-blog-post u-repeater-item">` +
	`<!--blog_post_header--><h2><a href="#default"><!--blog_post_header_content-->Default title<!--/blog_post_header_content--></a></h2><!--/blog_post_header-->` +
	`<!--blog_post_image--><img class="u-image" src="default.jpg"><!--/blog_post_image-->` +
	`</div><!--/blog_post-->`

func listingBlock(options string) string {
	cfg := ""
	if options != "" {
		cfg = `<!--blog_options_json--><!--` + options + `--><!--/blog_options_json-->`
	}
	return `<section class="u-blog"><!--blog-->` + cfg +
		`<div class="u-repeater">` + itemTemplate + `</div>` +
		`<!--blog_pagination--><!--blog_pagination_options_json--><!--{"nextText":"Next"}--><!--/blog_pagination_options_json--><!--/blog_pagination-->` +
		`<!--/blog--></section>`
}

func detailBlock(source string) string {
	return `<article><!--post_details-->` +
		`<!--post_details_options_json--><!--{"source":"` + source + `"}--><!--/post_details_options_json-->` +
		itemTemplate + `<!--/post_details--></article>`
}

type rendererFixture struct {
	src   *fakeSource
	pages *recordingPagination
}

func newFixture(t *testing.T) *rendererFixture {
	t.Helper()
	src := newFakeSource()
	src.addItems("News", 1, 7)
	return &rendererFixture{src: src, pages: &recordingPagination{}}
}

func (f *rendererFixture) renderer(opts Options) *Renderer {
	opts.Pagination = f.pages
	if opts.PageID == "" {
		opts.PageID = "home"
	}
	return NewRenderer(NewResolver(f.src, fakeURLs{}, ""), opts)
}

func renderedTitles(html string) []string {
	var titles []string
	for _, part := range strings.Split(html, `">Post `)[1:] {
		titles = append(titles, "Post "+part[:strings.Index(part, "<")])
	}
	return titles
}

func TestRenderPagePaginatesCategory(t *testing.T) {
	f := newFixture(t)
	r := f.renderer(Options{Request: RequestContext{Offset: 3}})

	out, err := r.RenderPage(context.Background(), listingBlock(`{"source":"News","count":3}`))
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	if got := renderedTitles(out); !reflect.DeepEqual(got, []string{"Post 4", "Post 5", "Post 6"}) {
		t.Errorf("titles = %v", got)
	}
	if n := strings.Count(out, `class="u-blog-post`); n != 3 {
		t.Errorf("expected 3 item fragments, got %d", n)
	}

	if len(f.pages.contexts) != 1 {
		t.Fatalf("expected one pagination context, got %d", len(f.pages.contexts))
	}
	pc := f.pages.contexts[0]
	want := PaginationContext{TotalItems: 7, Offset: 3, PageSize: 3, PageID: "home", PositionOnPage: 1, Task: TaskBlogPosts}
	if pc != want {
		t.Errorf("context = %+v, want %+v", pc, want)
	}
	if string(f.pages.options[0]) != `{"nextText":"Next"}` {
		t.Errorf("pagination options = %s", f.pages.options[0])
	}
	if !strings.Contains(out, `<nav data-offset="3"></nav>`) {
		t.Errorf("pagination not rendered: %s", out)
	}
	if strings.Contains(out, "<!--") {
		t.Errorf("markers left in output: %s", out)
	}
}

func TestRenderPageItemLinks(t *testing.T) {
	f := newFixture(t)
	out, err := f.renderer(Options{}).RenderPage(context.Background(), listingBlock(`{"source":"postId:2"}`))
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if !strings.Contains(out, `<a href="/articles/2">Post 2</a>`) {
		t.Errorf("header not linked to the item: %s", out)
	}
}

func TestRenderPageWithoutPagination(t *testing.T) {
	f := newFixture(t)
	out, err := f.renderer(Options{Request: RequestContext{Offset: 3}}).
		RenderPage(context.Background(), listingBlock(`{"source":"News","count":10}`))
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if n := len(renderedTitles(out)); n != 7 {
		t.Errorf("expected all 7 items, got %d", n)
	}
	if len(f.pages.contexts) != 0 {
		t.Error("pagination rendered for a block that fits one page")
	}
	if strings.Contains(out, "blog_pagination") || strings.Contains(out, "<nav") {
		t.Errorf("pagination region should be emptied: %s", out)
	}
}

func TestRenderPageOffsetPastEnd(t *testing.T) {
	f := newFixture(t)
	out, err := f.renderer(Options{Request: RequestContext{Offset: 30}}).
		RenderPage(context.Background(), listingBlock(`{"source":"News","count":3}`))
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if strings.Contains(out, "u-blog-post") {
		t.Errorf("expected an empty page: %s", out)
	}
}

func TestRenderPageIsIdempotent(t *testing.T) {
	f := newFixture(t)
	page := listingBlock(`{"source":"News","count":3,"gridProps":{"selector":".u-repeater","columns":{"xl":3}}}`) +
		detailBlock("postId:1")
	r := f.renderer(Options{})

	once, err := r.RenderPage(context.Background(), page)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	twice, err := r.RenderPage(context.Background(), once)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if once != twice {
		t.Errorf("second render changed the output:\n%s\n%s", once, twice)
	}
	if !strings.Contains(once, "<style>.u-repeater{grid-template-rows:repeat(1, auto)}</style>") {
		t.Errorf("grid style missing: %s", once)
	}
}

func TestRenderPageWithoutMarkersIsUnchanged(t *testing.T) {
	f := newFixture(t)
	r := f.renderer(Options{})
	for _, page := range []string{
		"",
		"<html><body><p>Hello</p></body></html>",
		"<div><!--blog--><p>never closed</p></div>",
		"<div><!--/blog--><!--/post_details--></div>",
	} {
		out, err := r.RenderPage(context.Background(), page)
		if err != nil {
			t.Fatalf("RenderPage: %v", err)
		}
		if out != page {
			t.Errorf("page changed:\n%q\n%q", page, out)
		}
	}
	if len(f.src.calls) != 0 {
		t.Errorf("source queried for a page without regions: %v", f.src.calls)
	}
}

func TestRenderPageMissingImageClass(t *testing.T) {
	f := newFixture(t)
	f.src.items[0].Image = "/img/1.png"
	r := f.renderer(Options{MissingImageClass: DefaultHiddenClass})

	out, err := r.RenderPage(context.Background(), listingBlock(`{"source":"News"}`))
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if n := strings.Count(out, `class="u-blog-post u-repeater-item u-invisible"`); n != 6 {
		t.Errorf("expected 6 hidden-image items, got %d", n)
	}
	if n := strings.Count(out, noImagePlaceholder); n != 6 {
		t.Errorf("expected 6 placeholders, got %d", n)
	}
	if !strings.Contains(out, `<div class="u-blog-post u-repeater-item"><h2>`) || !strings.Contains(out, `src="/img/1.png"`) {
		t.Errorf("item with image should be untouched: %s", out)
	}
}

func TestRenderPageInvalidConfigUsesDefaults(t *testing.T) {
	f := newFixture(t)
	f.src.addItems("Sport", 8, 2)
	out, err := f.renderer(Options{}).RenderPage(context.Background(), listingBlock(`{"source": News, count}`))
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if n := len(renderedTitles(out)); n != 9 {
		t.Errorf("expected every recent item, got %d", n)
	}
	if strings.Contains(out, "blog_options_json") {
		t.Errorf("options marker left in output: %s", out)
	}
	if len(f.pages.contexts) != 0 {
		t.Error("defaults must not paginate")
	}
}

func TestRenderPageUnpublishedExplicitItem(t *testing.T) {
	f := newFixture(t)
	f.src.hidden["5"] = true

	page := listingBlock(`{"source":"postId:5","count":1}`) + detailBlock("postId:5")
	out, err := f.renderer(Options{}).RenderPage(context.Background(), page)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if strings.Contains(out, "u-blog-post") {
		t.Errorf("expected zero item fragments: %s", out)
	}
	if len(f.pages.contexts) != 0 {
		t.Error("expected no pagination")
	}
	if !strings.Contains(out, "<article></article>") {
		t.Errorf("detail region should render empty: %s", out)
	}
}

func TestRenderPageDetail(t *testing.T) {
	f := newFixture(t)
	out, err := f.renderer(Options{}).RenderPage(context.Background(), detailBlock("postId:4"))
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if got := renderedTitles(out); !reflect.DeepEqual(got, []string{"Post 4"}) {
		t.Errorf("titles = %v", got)
	}

	f.src.calls = nil
	out, _ = f.renderer(Options{}).RenderPage(context.Background(), `<!--post_details-->`+itemTemplate+`<!--/post_details-->`)
	if out != "" || len(f.src.calls) != 0 {
		t.Errorf("detail without a source: %q, calls %v", out, f.src.calls)
	}
}

func TestRenderPageDetailInsideListing(t *testing.T) {
	f := newFixture(t)
	page := `<!--blog--><!--blog_options_json--><!--{"source":"News","count":2}--><!--/blog_options_json-->` +
		itemTemplate + detailBlock("postId:5") + `<!--/blog-->`
	r := f.renderer(Options{})

	out, err := r.RenderPage(context.Background(), page)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if got := renderedTitles(out); !reflect.DeepEqual(got, []string{"Post 1", "Post 2", "Post 5"}) {
		t.Errorf("titles = %v", got)
	}
	if strings.Contains(out, "<article></article>") {
		t.Errorf("nested detail region rendered empty: %s", out)
	}
	if strings.Contains(out, "\x00") || strings.Contains(out, "<!--") {
		t.Errorf("markers left in output: %s", out)
	}

	block, err := r.RenderBlockByPosition(context.Background(), page, 1)
	if err != nil {
		t.Fatalf("RenderBlockByPosition: %v", err)
	}
	if block != out {
		t.Errorf("block = %s\nwant %s", block, out)
	}
}

func TestRenderPageMultipleBlocks(t *testing.T) {
	f := newFixture(t)
	page := listingBlock(`{"source":"News","count":2}`) + listingBlock(`{"source":"News","count":3}`)
	r := f.renderer(Options{Request: RequestContext{Offset: 3, Position: 2, PageID: "req"}})

	out, err := r.RenderPage(context.Background(), page)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	want := []string{"Post 1", "Post 2", "Post 4", "Post 5", "Post 6"}
	if got := renderedTitles(out); !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if len(f.pages.contexts) != 2 {
		t.Fatalf("expected 2 pagination contexts, got %d", len(f.pages.contexts))
	}
	first, second := f.pages.contexts[0], f.pages.contexts[1]
	if first.PositionOnPage != 1 || first.Offset != 0 || first.PageID != "req" {
		t.Errorf("first block context = %+v", first)
	}
	if second.PositionOnPage != 2 || second.Offset != 3 {
		t.Errorf("second block context = %+v", second)
	}
}

func TestRenderPagePropagatesSourceErrors(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk I/O error")
	f.src.err = boom
	if _, err := f.renderer(Options{}).RenderPage(context.Background(), listingBlock("")); !errors.Is(err, boom) {
		t.Errorf("expected source error, got %v", err)
	}
}

func TestRenderBlockByPosition(t *testing.T) {
	f := newFixture(t)
	page := `<header>top</header>` + listingBlock(`{"source":"News","count":2}`) + listingBlock(`{"source":"postId:7"}`)
	r := f.renderer(Options{Request: RequestContext{Offset: 2, Position: 1}})

	block, err := r.RenderBlockByPosition(context.Background(), page, 1)
	if err != nil {
		t.Fatalf("RenderBlockByPosition: %v", err)
	}
	if got := renderedTitles(block); !reflect.DeepEqual(got, []string{"Post 3", "Post 4"}) {
		t.Errorf("titles = %v", got)
	}
	if strings.Contains(block, "top") || strings.Contains(block, "<section") {
		t.Errorf("block should not include surrounding markup: %s", block)
	}

	block, err = r.RenderBlockByPosition(context.Background(), page, 2)
	if err != nil {
		t.Fatalf("RenderBlockByPosition: %v", err)
	}
	if got := renderedTitles(block); !reflect.DeepEqual(got, []string{"Post 7"}) {
		t.Errorf("titles = %v", got)
	}

	if _, err := r.RenderBlockByPosition(context.Background(), page, 3); !errors.Is(err, ErrNoItem) {
		t.Errorf("expected ErrNoItem, got %v", err)
	}
}

func TestRenderSingleItemByPosition(t *testing.T) {
	f := newFixture(t)
	f.src.addItems("Sport", 8, 2)
	page := listingBlock(`{"source":"News","count":3}`) + listingBlock(`{"source":"Sport","count":1}`)
	ctx := context.Background()

	item, err := f.renderer(Options{}).RenderSingleItemByPosition(ctx, page, 5)
	if err != nil {
		t.Fatalf("RenderSingleItemByPosition: %v", err)
	}
	if item.ID() != "5" {
		t.Errorf("expected item 5 of the unsliced list, got %q", item.ID())
	}
	if len(f.pages.contexts) != 0 {
		t.Error("single item fetch must not render pagination")
	}

	item, err = f.renderer(Options{Request: RequestContext{Position: 2}}).RenderSingleItemByPosition(ctx, page, 2)
	if err != nil {
		t.Fatalf("RenderSingleItemByPosition: %v", err)
	}
	if item.ID() != "9" {
		t.Errorf("expected item 9 of the second block, got %q", item.ID())
	}

	if _, err := f.renderer(Options{}).RenderSingleItemByPosition(ctx, page, 8); !errors.Is(err, ErrNoItem) {
		t.Errorf("expected ErrNoItem past the end, got %v", err)
	}
	if _, err := f.renderer(Options{Request: RequestContext{Position: 3}}).RenderSingleItemByPosition(ctx, page, 1); !errors.Is(err, ErrNoItem) {
		t.Errorf("expected ErrNoItem for a missing block, got %v", err)
	}
}
