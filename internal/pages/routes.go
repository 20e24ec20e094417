package pages

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/pagebuilder/internal/listing"
)

// RegisterRoutes mounts the page views and the pages API.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pages/{id}", handleView(svc))
	r.Post("/api/render", handleRender(svc))
	r.Route("/api/pages", func(r chi.Router) {
		r.Get("/", handleList(svc))
		r.Post("/", handleCreate(svc))
		r.Get("/{id}", handleGetByID(svc))
		r.Put("/{id}", handleUpdate(svc))
		r.Delete("/{id}", handleDelete(svc))
		r.Get("/{id}/blogposts", handleBlock(svc))
		r.Get("/{id}/items/{n}", handleItem(svc))
	})
}

// queryInt parses a non-negative integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func writeRenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error":"page not found"}`, http.StatusNotFound)
	case errors.Is(err, listing.ErrNoItem):
		http.Error(w, `{"error":"no item at position"}`, http.StatusNotFound)
	default:
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
	}
}

func handleView(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := listing.RequestContext{
			Offset:   queryInt(r, "offset", 0),
			PageID:   r.URL.Query().Get("pageId"),
			Position: queryInt(r, "position", 0),
		}
		out, err := svc.RenderPage(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeRenderError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(out))
	}
}

func handleRender(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		out, err := svc.RenderHTML(r.Context(), req.HTML, listing.RequestContext{
			Offset:   max(req.Offset, 0),
			PageID:   req.PageID,
			Position: max(req.Position, 0),
		})
		if err != nil {
			writeRenderError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RenderResponse{HTML: out})
	}
}

func handleBlock(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.RenderBlock(r.Context(), chi.URLParam(r, "id"),
			queryInt(r, "position", 1), queryInt(r, "offset", 0))
		if err != nil {
			writeRenderError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(out))
	}
}

func handleItem(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "n"))
		if err != nil || n < 1 {
			http.Error(w, `{"error":"item position must be a positive integer"}`, http.StatusBadRequest)
			return
		}
		item, err := svc.Item(r.Context(), chi.URLParam(r, "id"), queryInt(r, "position", 1), n)
		if err != nil {
			writeRenderError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(item)
	}
}

func handleList(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages, err := svc.Store().List(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if pages == nil {
			pages = []Page{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pages)
	}
}

func handleCreate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Page
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if p.HTML == "" {
			http.Error(w, `{"error":"html is required"}`, http.StatusBadRequest)
			return
		}
		created, err := svc.Create(r.Context(), p)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func handleGetByID(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Store().GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if p == nil {
			http.Error(w, `{"error":"page not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

func handleUpdate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Page
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		p.ID = chi.URLParam(r, "id")
		if err := svc.Update(r.Context(), p); err != nil {
			writeRenderError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDelete(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeRenderError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
