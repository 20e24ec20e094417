package pages

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/ziadkadry99/pagebuilder/internal/audit"
	"github.com/ziadkadry99/pagebuilder/internal/listing"
	"github.com/ziadkadry99/pagebuilder/internal/sitesettings"
)

// Options configures a Service.
type Options struct {
	ItemClass         string
	MissingImageClass string
	PaginationWindow  int
	Settings          sitesettings.Settings
	// Audit records page changes; nil disables it.
	Audit  *audit.Store
	Logger *zap.Logger
}

// Service renders stored and ad-hoc pages against the article source.
type Service struct {
	store    *Store
	resolver *listing.Resolver
	opts     Options
	log      *zap.Logger
}

// NewService creates a Service.
func NewService(store *Store, resolver *listing.Resolver, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	opts.Logger = log
	return &Service{store: store, resolver: resolver, opts: opts, log: log.Named("pages")}
}

// PageLink returns a LinkBuilder pointing pagination at the page view of id.
func PageLink(id string) listing.LinkBuilder {
	return func(pc listing.PaginationContext, offset int) string {
		v := url.Values{}
		v.Set("offset", strconv.Itoa(offset))
		v.Set("position", strconv.Itoa(pc.PositionOnPage))
		return "/pages/" + url.PathEscape(id) + "?" + v.Encode()
	}
}

func (s *Service) renderer(pageID string, req listing.RequestContext, links listing.LinkBuilder) *listing.Renderer {
	return listing.NewRenderer(s.resolver, listing.Options{
		PageID:            pageID,
		Request:           req,
		Pagination:        listing.DefaultPagination{Links: links, Window: s.opts.PaginationWindow},
		ItemClass:         s.opts.ItemClass,
		MissingImageClass: s.opts.MissingImageClass,
		Logger:            s.opts.Logger,
	})
}

// RenderHTML renders an ad-hoc page and applies the site settings.
// Pagination links are relative query strings.
func (s *Service) RenderHTML(ctx context.Context, page string, req listing.RequestContext) (string, error) {
	out, err := s.renderer(req.PageID, req, listing.QueryLink).RenderPage(ctx, page)
	if err != nil {
		return "", err
	}
	return sitesettings.Apply(out, s.opts.Settings), nil
}

// RenderBlockHTML returns the listing block at position of an ad-hoc page,
// rendered at offset. Pagination links are relative query strings.
func (s *Service) RenderBlockHTML(ctx context.Context, page string, position, offset int, pageID string) (string, error) {
	req := listing.RequestContext{Offset: offset, PageID: pageID, Position: position}
	return s.renderer(pageID, req, listing.QueryLink).RenderBlockByPosition(ctx, page, position)
}

// RenderPage renders a stored page and applies the site settings.
func (s *Service) RenderPage(ctx context.Context, id string, req listing.RequestContext) (string, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	out, err := s.renderer(p.ID, req, PageLink(p.ID)).RenderPage(ctx, p.HTML)
	if err != nil {
		return "", err
	}
	s.log.Debug("page rendered", zap.String("page", p.ID), zap.Int("offset", req.Offset), zap.Int("position", req.Position))
	return sitesettings.Apply(out, s.opts.Settings), nil
}

// RenderBlock renders one listing block of a stored page at an offset. It
// returns listing.ErrNoItem when the page has no block at position.
func (s *Service) RenderBlock(ctx context.Context, id string, position, offset int) (string, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	req := listing.RequestContext{Offset: offset, PageID: p.ID, Position: position}
	return s.renderer(p.ID, req, PageLink(p.ID)).RenderBlockByPosition(ctx, p.HTML, position)
}

// Item returns the item at itemPosition of the block at blockPosition.
func (s *Service) Item(ctx context.Context, id string, blockPosition, itemPosition int) (listing.ItemRecord, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return listing.ItemRecord{}, err
	}
	req := listing.RequestContext{PageID: p.ID, Position: blockPosition}
	return s.renderer(p.ID, req, PageLink(p.ID)).RenderSingleItemByPosition(ctx, p.HTML, itemPosition)
}

func (s *Service) load(ctx context.Context, id string) (*Page, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Create stores a new page.
func (s *Service) Create(ctx context.Context, p Page) (*Page, error) {
	created, err := s.store.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionPageCreated, created.ID, created.Title)
	return created, nil
}

// Update replaces a stored page.
func (s *Service) Update(ctx context.Context, p Page) error {
	if err := s.store.Update(ctx, p); err != nil {
		return err
	}
	s.record(ctx, audit.ActionPageUpdated, p.ID, p.Title)
	return nil
}

// Delete removes a stored page.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, audit.ActionPageDeleted, id, "")
	return nil
}

// record logs a page change. Audit failures never fail the change itself.
func (s *Service) record(ctx context.Context, action audit.Action, id, title string) {
	err := s.opts.Audit.Log(ctx, audit.Entry{
		ActorType: audit.ActorUser,
		Action:    action,
		Subject:   audit.SubjectPage,
		SubjectID: id,
		Summary:   title,
	})
	if err != nil {
		s.log.Warn("audit entry not written", zap.String("page", id), zap.Error(err))
	}
}

// Store returns the page store.
func (s *Service) Store() *Store { return s.store }
