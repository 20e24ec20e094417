package content

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/pagebuilder/internal/db"
	"github.com/ziadkadry99/pagebuilder/internal/listing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustArticle(t *testing.T, s *Store, a Article) *Article {
	t.Helper()
	created, err := s.CreateArticle(context.Background(), a)
	if err != nil {
		t.Fatalf("CreateArticle(%q): %v", a.Title, err)
	}
	return created
}

func TestCreateAndGetArticle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	news, err := store.CreateCategory(ctx, Category{Title: "Company News", Published: true})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if news.Alias != "company-news" {
		t.Errorf("expected alias company-news, got %q", news.Alias)
	}

	comments := 4
	created := mustArticle(t, store, Article{
		Title:        "Hello World",
		CategoryID:   news.ID,
		Body:         "<p>Hi</p>",
		Author:       "Ann",
		CommentCount: &comments,
		Published:    true,
		PublishUp:    base,
		Tags:         []string{"go", " Go ", "web", ""},
	})
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.Alias != "hello-world" {
		t.Errorf("expected alias hello-world, got %q", created.Alias)
	}
	if !reflect.DeepEqual(created.Tags, []string{"go", "web"}) {
		t.Errorf("expected cleaned tags, got %v", created.Tags)
	}

	fetched, err := store.GetArticle(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected article")
	}
	if fetched.Title != "Hello World" || fetched.CategoryTitle != "Company News" {
		t.Errorf("unexpected article: %+v", fetched)
	}
	if fetched.BodyFormat != FormatHTML {
		t.Errorf("expected default body format html, got %q", fetched.BodyFormat)
	}
	if fetched.CommentCount == nil || *fetched.CommentCount != 4 {
		t.Errorf("expected 4 comments, got %v", fetched.CommentCount)
	}
	if !fetched.PublishUp.Equal(base) {
		t.Errorf("publish_up: got %v, want %v", fetched.PublishUp, base)
	}
	if !reflect.DeepEqual(fetched.Tags, []string{"go", "web"}) {
		t.Errorf("tags: got %v", fetched.Tags)
	}

	missing, err := store.GetArticle(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil for missing article, got %v, %v", missing, err)
	}
}

func TestCreateArticleRequiresTitle(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.CreateArticle(context.Background(), Article{Body: "x"}); err == nil {
		t.Error("expected error for missing title")
	}
}

func TestListOrderingAndFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	news, _ := store.CreateCategory(ctx, Category{Title: "News", Published: true})
	hidden, _ := store.CreateCategory(ctx, Category{Title: "Archive", Published: false})

	mustArticle(t, store, Article{ID: "a1", Title: "Oldest", CategoryID: news.ID, Published: true, PublishUp: base, Tags: []string{"go"}})
	mustArticle(t, store, Article{ID: "a2", Title: "Newest", CategoryID: news.ID, Published: true, PublishUp: base.Add(48 * time.Hour)})
	mustArticle(t, store, Article{ID: "a3", Title: "Middle", Published: true, PublishUp: base.Add(24 * time.Hour), Tags: []string{"Web"}})
	mustArticle(t, store, Article{ID: "a4", Title: "Draft", CategoryID: news.ID, Published: false, PublishUp: base})
	mustArticle(t, store, Article{ID: "a5", Title: "Archived", CategoryID: hidden.ID, Published: true, PublishUp: base})
	mustArticle(t, store, Article{ID: "a6", Title: "Scheduled", Published: true, PublishUp: time.Now().Add(72 * time.Hour), Tags: []string{"go"}})

	ids := func(articles []Article) []string {
		var out []string
		for _, a := range articles {
			out = append(out, a.ID)
		}
		return out
	}

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 6 || all[0].ID != "a6" {
		t.Errorf("expected 6 articles newest first, got %v", ids(all))
	}

	published, _ := store.List(ctx, ListFilter{PublishedOnly: true})
	if got := ids(published); !reflect.DeepEqual(got, []string{"a2", "a3", "a1"}) {
		t.Errorf("published: got %v", got)
	}

	byCategory, _ := store.List(ctx, ListFilter{CategoryID: news.ID, PublishedOnly: true})
	if got := ids(byCategory); !reflect.DeepEqual(got, []string{"a2", "a1"}) {
		t.Errorf("by category: got %v", got)
	}

	byTags, _ := store.List(ctx, ListFilter{Tags: []string{"web", "GO"}, PublishedOnly: true})
	if got := ids(byTags); !reflect.DeepEqual(got, []string{"a3", "a1"}) {
		t.Errorf("by tags: got %v", got)
	}

	limited, _ := store.List(ctx, ListFilter{PublishedOnly: true, Limit: 1})
	if got := ids(limited); !reflect.DeepEqual(got, []string{"a2"}) {
		t.Errorf("limited: got %v", got)
	}
}

func TestLookupCategoryID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	news, _ := store.CreateCategory(ctx, Category{Title: "News", Published: true})
	store.CreateCategory(ctx, Category{Title: "Drafts", Published: false})

	id, ok, err := store.LookupCategoryID(ctx, " news ")
	if err != nil || !ok || id != news.ID {
		t.Errorf("LookupCategoryID(news) = %q, %v, %v", id, ok, err)
	}
	if _, ok, _ := store.LookupCategoryID(ctx, "Drafts"); ok {
		t.Error("unpublished category should not be found")
	}
	if _, ok, _ := store.LookupCategoryID(ctx, "Weather"); ok {
		t.Error("unknown category should not be found")
	}
}

func TestEnsureCategory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.EnsureCategory(ctx, "Sport")
	if err != nil {
		t.Fatalf("EnsureCategory: %v", err)
	}
	again, err := store.EnsureCategory(ctx, "SPORT")
	if err != nil {
		t.Fatalf("EnsureCategory: %v", err)
	}
	if first.ID != again.ID {
		t.Errorf("expected the existing category, got %s and %s", first.ID, again.ID)
	}
	cats, _ := store.ListCategories(ctx)
	if len(cats) != 1 {
		t.Errorf("expected 1 category, got %d", len(cats))
	}
}

func TestUpdateArticle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := mustArticle(t, store, Article{Title: "Draft", Published: false, Tags: []string{"old"}})
	a.Title = "Final"
	a.Published = true
	a.Tags = []string{"new"}
	if err := store.UpdateArticle(ctx, *a); err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}

	fetched, _ := store.GetArticle(ctx, a.ID)
	if fetched.Title != "Final" || !fetched.Published {
		t.Errorf("update not applied: %+v", fetched)
	}
	if !reflect.DeepEqual(fetched.Tags, []string{"new"}) {
		t.Errorf("tags not replaced: %v", fetched.Tags)
	}

	if err := store.UpdateArticle(ctx, Article{ID: "missing", Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPublishedAndDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := mustArticle(t, store, Article{Title: "Post", Published: true, PublishUp: base})
	if err := store.SetPublished(ctx, a.ID, false); err != nil {
		t.Fatalf("SetPublished: %v", err)
	}
	published, _ := store.List(ctx, ListFilter{PublishedOnly: true})
	if len(published) != 0 {
		t.Errorf("expected no published articles, got %d", len(published))
	}

	if err := store.DeleteArticle(ctx, a.ID); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}
	if err := store.DeleteArticle(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestURLBuilder(t *testing.T) {
	u := NewURLBuilder("https://example.com/")
	tests := []struct {
		got, want string
	}{
		{u.ItemURL("42"), "https://example.com/articles/42"},
		{u.ArticleURL("42", "Hello World"), "https://example.com/articles/42-hello-world"},
		{u.ArticleURL("42", ""), "https://example.com/articles/42"},
		{u.TagURL("Go Lang"), "https://example.com/tags/go-lang"},
		{u.CategoryURL("Company News"), "https://example.com/categories/company-news"},
		{u.EditURL("42"), "https://example.com/admin/articles/42/edit"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func setupProvider(t *testing.T, opts ProviderOptions) (*Store, *Provider) {
	t.Helper()
	store := setupTestStore(t)
	return store, NewProvider(store, NewURLBuilder("https://example.com"), opts)
}

func TestProviderRawItem(t *testing.T) {
	store, provider := setupProvider(t, ProviderOptions{ShowEditLink: true})
	ctx := context.Background()

	news, _ := store.CreateCategory(ctx, Category{Title: "News & Events", Published: true})
	a := mustArticle(t, store, Article{
		ID:           "7",
		Title:        "Release <1.0>",
		CategoryID:   news.ID,
		Body:         "# Title\n\nSome **bold** text.\n\n<script>alert(1)</script>",
		BodyFormat:   FormatMarkdown,
		Image:        "/img/r.png",
		ReadMoreText: "Continue",
		Published:    true,
		PublishUp:    base,
		Tags:         []string{"v10", "v2", "alpha"},
	})

	item, ok, err := provider.ItemByID(ctx, a.ID)
	if err != nil || !ok {
		t.Fatalf("ItemByID: %v, %v", ok, err)
	}
	if item.Title != "Release <1.0>" {
		t.Errorf("title should stay plain text, got %q", item.Title)
	}
	if item.Link != "https://example.com/articles/7-release-1-0" {
		t.Errorf("link: %q", item.Link)
	}
	if !strings.Contains(item.Content, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %s", item.Content)
	}
	if strings.Contains(item.Content, "<script>") {
		t.Errorf("script not sanitized: %s", item.Content)
	}
	if item.Category != `<a class="u-category" href="https://example.com/categories/news-and-events">News &amp; Events</a>` {
		t.Errorf("category: %s", item.Category)
	}
	wantTags := `<a class="u-tag" href="https://example.com/tags/alpha">alpha</a>, ` +
		`<a class="u-tag" href="https://example.com/tags/v2">v2</a>, ` +
		`<a class="u-tag" href="https://example.com/tags/v10">v10</a>`
	if item.Tags != wantTags {
		t.Errorf("tags: %s", item.Tags)
	}
	if !strings.Contains(item.EditLink, "/admin/articles/7/edit") {
		t.Errorf("edit link: %s", item.EditLink)
	}
	if item.CommentCount != nil {
		t.Errorf("untracked comments should be nil, got %v", *item.CommentCount)
	}
}

func TestProviderHidesUnpublished(t *testing.T) {
	store, provider := setupProvider(t, ProviderOptions{})
	ctx := context.Background()

	a := mustArticle(t, store, Article{Title: "Draft", Published: false, PublishUp: base})
	if _, ok, err := provider.ItemByID(ctx, a.ID); err != nil || ok {
		t.Errorf("unpublished article served: ok=%v err=%v", ok, err)
	}
	recent, err := provider.RecentItems(ctx, 0)
	if err != nil || len(recent) != 0 {
		t.Errorf("recent items: %d, %v", len(recent), err)
	}
	if items, _ := provider.ItemsByTags(ctx, nil, 0); len(items) != 0 {
		t.Error("empty tag set should match nothing")
	}
}

func TestProviderWithRenderer(t *testing.T) {
	store, provider := setupProvider(t, ProviderOptions{})
	ctx := context.Background()

	news, _ := store.CreateCategory(ctx, Category{Title: "News", Published: true})
	for i := 0; i < 5; i++ {
		mustArticle(t, store, Article{
			Title:      "Post " + string(rune('A'+i)),
			CategoryID: news.ID,
			Published:  true,
			PublishUp:  base.Add(time.Duration(i) * time.Hour),
		})
	}

	page := `<!--blog--><!--blog_options_json--><!--{"source":"News","count":2}--><!--/blog_options_json-->` +
		`<!--blog_post--><h2><a href="#"><!--blog_post_header--><!--blog_post_header_content-->T<!--/blog_post_header_content--><!--/blog_post_header--></a></h2><!--/blog_post-->` +
		`<!--/blog-->`
	resolver := listing.NewResolver(provider, NewURLBuilder("https://example.com"), "")
	r := listing.NewRenderer(resolver, listing.Options{PageID: "p", Request: listing.RequestContext{Offset: 2}})

	out, err := r.RenderPage(ctx, page)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if !strings.Contains(out, "Post C") || !strings.Contains(out, "Post B") {
		t.Errorf("expected the second page (C, B): %s", out)
	}
	if strings.Contains(out, "Post E") || strings.Contains(out, "Post A") {
		t.Errorf("items outside the page rendered: %s", out)
	}
	if !strings.Contains(out, `class="u-pagination"`) {
		t.Errorf("pagination missing: %s", out)
	}
}
