package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/pagebuilder/internal/db"
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

func TestLogAndQuery(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Timestamp: base, Action: ActionPageCreated, Subject: SubjectPage, SubjectID: "home", Summary: "Home"},
		{Timestamp: base.Add(time.Hour), Action: ActionPageUpdated, Subject: SubjectPage, SubjectID: "home"},
		{Timestamp: base.Add(2 * time.Hour), Action: ActionArticleImported, Subject: SubjectArticle, SubjectID: "a1", ActorID: "import"},
	}
	for _, e := range entries {
		if err := s.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	all, err := s.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != 3 || all[0].Action != ActionArticleImported {
		t.Fatalf("entries = %+v", all)
	}
	if all[0].ActorType != ActorSystem || all[0].ActorID != "import" {
		t.Errorf("actor = %s/%s", all[0].ActorType, all[0].ActorID)
	}

	pages, _ := s.Query(ctx, QueryFilter{Subject: SubjectPage, SubjectID: "home"})
	if len(pages) != 2 {
		t.Errorf("page entries = %d, want 2", len(pages))
	}
	since := base.Add(30 * time.Minute)
	recent, _ := s.Query(ctx, QueryFilter{Since: &since, Limit: 1})
	if len(recent) != 1 || recent[0].SubjectID != "a1" {
		t.Errorf("recent = %+v", recent)
	}

	got, err := s.GetByID(ctx, all[2].ID)
	if err != nil || got == nil || got.Summary != "Home" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
	if missing, err := s.GetByID(ctx, "nope"); err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %+v, %v", missing, err)
	}

	n, err := s.DeleteBefore(ctx, base.Add(90*time.Minute))
	if err != nil || n != 2 {
		t.Errorf("DeleteBefore = %d, %v", n, err)
	}
}

func TestNilStoreDiscards(t *testing.T) {
	var s *Store
	if err := s.Log(context.Background(), Entry{Action: ActionPageDeleted}); err != nil {
		t.Errorf("nil store Log: %v", err)
	}
}

func TestRoutes(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Log(context.Background(), Entry{Action: ActionPageCreated, Subject: SubjectPage, SubjectID: "p"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, s)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit?subject=page", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []Entry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].SubjectID != "p" {
		t.Errorf("entries = %+v", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d", rec.Code)
	}
}
