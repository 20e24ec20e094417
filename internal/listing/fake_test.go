package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// fakeSource is an in-memory Source. items are kept newest first.
type fakeSource struct {
	items      []RawItem
	categories map[string]string   // category name -> id
	categoryOf map[string]string   // item id -> category id
	tagsOf     map[string][]string // item id -> tag names
	hidden     map[string]bool     // unpublished item ids
	err        error
	calls      []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		categories: map[string]string{},
		categoryOf: map[string]string{},
		tagsOf:     map[string][]string{},
		hidden:     map[string]bool{},
	}
}

// addItems appends n items with ids from, from+1, ... to a category.
func (f *fakeSource) addItems(category string, from, n int) {
	catID, ok := f.categories[category]
	if !ok && category != "" {
		catID = "c" + strconv.Itoa(len(f.categories)+1)
		f.categories[category] = catID
	}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := strconv.Itoa(from + i)
		f.items = append(f.items, RawItem{
			ID:    id,
			Title: "Post " + id,
			Date:  base.AddDate(0, 0, -(from + i)),
		})
		if catID != "" {
			f.categoryOf[id] = catID
		}
	}
}

func (f *fakeSource) visible() []RawItem {
	var out []RawItem
	for _, it := range f.items {
		if !f.hidden[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

func limitItems(items []RawItem, limit int) []RawItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (f *fakeSource) LookupCategoryID(_ context.Context, name string) (string, bool, error) {
	f.calls = append(f.calls, "category:"+name)
	if f.err != nil {
		return "", false, f.err
	}
	id, ok := f.categories[name]
	return id, ok, nil
}

func (f *fakeSource) ItemsByCategory(_ context.Context, categoryID string, limit int) ([]RawItem, error) {
	f.calls = append(f.calls, "byCategory:"+categoryID)
	if f.err != nil {
		return nil, f.err
	}
	var out []RawItem
	for _, it := range f.visible() {
		if f.categoryOf[it.ID] == categoryID {
			out = append(out, it)
		}
	}
	return limitItems(out, limit), nil
}

func (f *fakeSource) ItemsByTags(_ context.Context, tags []string, limit int) ([]RawItem, error) {
	f.calls = append(f.calls, fmt.Sprintf("byTags:%v", tags))
	if f.err != nil {
		return nil, f.err
	}
	want := map[string]bool{}
	for _, t := range tags {
		want[t] = true
	}
	var out []RawItem
	for _, it := range f.visible() {
		for _, t := range f.tagsOf[it.ID] {
			if want[t] {
				out = append(out, it)
				break
			}
		}
	}
	return limitItems(out, limit), nil
}

func (f *fakeSource) ItemByID(_ context.Context, id string) (RawItem, bool, error) {
	f.calls = append(f.calls, "byID:"+id)
	if f.err != nil {
		return RawItem{}, false, f.err
	}
	for _, it := range f.visible() {
		if it.ID == id {
			return it, true, nil
		}
	}
	return RawItem{}, false, nil
}

func (f *fakeSource) RecentItems(_ context.Context, limit int) ([]RawItem, error) {
	f.calls = append(f.calls, "recent")
	if f.err != nil {
		return nil, f.err
	}
	return limitItems(f.visible(), limit), nil
}

type fakeURLs struct{}

func (fakeURLs) ItemURL(id string) string { return "/articles/" + id }

// recordingPagination captures every context it is asked to render.
type recordingPagination struct {
	contexts []PaginationContext
	options  []json.RawMessage
}

func (p *recordingPagination) RenderPagination(pc PaginationContext, options json.RawMessage) string {
	p.contexts = append(p.contexts, pc)
	p.options = append(p.options, options)
	return "<nav data-offset=\"" + strconv.Itoa(pc.Offset) + "\"></nav>"
}

func recordIDs(items []ItemRecord) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	return ids
}
