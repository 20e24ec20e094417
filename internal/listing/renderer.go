package listing

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ErrNoItem is returned when a position addresses no block or no item.
var ErrNoItem = errors.New("listing: no item at position")

// Default item classes.
const (
	DefaultItemClass    = "u-blog-post"
	DefaultHiddenClass  = "u-invisible"
	defaultAjaxPosition = 1
)

// Options configures a Renderer.
type Options struct {
	// PageID identifies the page in pagination contexts.
	PageID string
	// Request carries offset and block addressing from the current request.
	Request RequestContext
	// Pagination renders pagination controls; DefaultPagination when nil.
	Pagination PaginationRenderer
	// ItemClass is the class of a rendered item's root element.
	ItemClass string
	// MissingImageClass is added to ItemClass elements of items that had no
	// image for their image region. Empty disables it.
	MissingImageClass string
	Logger            *zap.Logger
}

// Renderer expands listing and detail regions. Options.Request binds it to
// one request, so build a Renderer per request.
type Renderer struct {
	resolver *Resolver
	opts     Options
	log      *zap.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(resolver *Resolver, opts Options) *Renderer {
	if opts.Pagination == nil {
		opts.Pagination = DefaultPagination{}
	}
	if opts.ItemClass == "" {
		opts.ItemClass = DefaultItemClass
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{resolver: resolver, opts: opts, log: log.Named("listing")}
}

// renderState is the mutable state of one render pass.
type renderState struct {
	// queue holds the items still to render in the current region.
	queue []ItemRecord
	// current is the item being substituted.
	current ItemRecord
	// pagination of the current listing block, nil when unpaginated.
	pagination *PaginationContext
	// position counts listing blocks; it is never reset.
	position int

	// blocks holds each rendered listing block, in page order.
	blocks []string
	// candidates holds each listing block's unsliced candidates.
	candidates [][]ItemRecord
	// stopAfter ends a candidate scan once that many blocks are resolved.
	stopAfter int
}

var errStopScan = errors.New("stop scan")

// RenderPage expands every listing region, then every detail region.
func (r *Renderer) RenderPage(ctx context.Context, page string) (string, error) {
	out, _, err := r.render(ctx, page)
	return out, err
}

// RenderBlockByPosition renders the page and returns the listing block at a
// 1-based position, as an ajax pagination request needs it.
func (r *Renderer) RenderBlockByPosition(ctx context.Context, page string, position int) (string, error) {
	_, st, err := r.render(ctx, page)
	if err != nil {
		return "", err
	}
	if position < 1 || position > len(st.blocks) {
		return "", ErrNoItem
	}
	return r.renderDetails(ctx, st, st.blocks[position-1])
}

// RenderSingleItemByPosition returns the item at a 1-based position of one
// block's candidates, without rendering anything. The block is the one
// Options.Request.Position addresses, or the first.
func (r *Renderer) RenderSingleItemByPosition(ctx context.Context, page string, position int) (ItemRecord, error) {
	block := r.opts.Request.Position
	if block < 1 {
		block = defaultAjaxPosition
	}
	st := &renderState{stopAfter: block}
	_, err := replaceBlocksErr(page, markerListing, func(b Block) (string, error) {
		st.position++
		_, cfg := r.blockConfig(b.Inner, st.position)
		candidates, err := r.resolver.Resolve(ctx, cfg.Source, 0)
		if err != nil {
			return "", err
		}
		st.candidates = append(st.candidates, candidates)
		if st.position >= st.stopAfter {
			return "", errStopScan
		}
		return "", nil
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return ItemRecord{}, err
	}
	if block > len(st.candidates) {
		return ItemRecord{}, ErrNoItem
	}
	item, ok := FetchOne(st.candidates[block-1], position)
	if !ok {
		return ItemRecord{}, ErrNoItem
	}
	return item, nil
}

func (r *Renderer) render(ctx context.Context, page string) (string, *renderState, error) {
	st := &renderState{}
	out, err := replaceBlocksErr(page, markerListing, func(b Block) (string, error) {
		return r.renderListing(ctx, st, b.Inner)
	})
	if err != nil {
		return "", st, err
	}
	out, err = r.renderDetails(ctx, st, out)
	if err != nil {
		return "", st, err
	}
	return out, st, nil
}

func (r *Renderer) renderDetails(ctx context.Context, st *renderState, text string) (string, error) {
	return replaceBlocksErr(text, markerDetail, func(b Block) (string, error) {
		return r.renderDetail(ctx, st, b.Inner)
	})
}

// blockConfig strips and decodes the options of a listing block.
func (r *Renderer) blockConfig(inner string, position int) (string, ListingConfig) {
	payload, rest, found := ExtractConfig(inner, markerListing)
	cfg, ok := ParseListingConfig(payload)
	if found && !ok {
		r.log.Warn("listing options undecodable, using defaults", zap.Int("position", position))
	}
	return rest, cfg
}

func (r *Renderer) renderListing(ctx context.Context, st *renderState, inner string) (string, error) {
	st.pagination = nil
	st.position++

	fragment, cfg := r.blockConfig(inner, st.position)
	candidates, err := r.resolver.Resolve(ctx, cfg.Source, 0)
	if err != nil {
		return "", err
	}
	st.candidates = append(st.candidates, candidates)

	visible := candidates
	if cfg.Count > 0 && len(candidates) > cfg.Count {
		visible, st.pagination = Paginate(candidates, PageRequest{
			Size:     cfg.Count,
			Offset:   r.offsetFor(st.position),
			PageID:   r.pageID(),
			Position: st.position,
		})
	}
	r.log.Debug("listing block",
		zap.Int("position", st.position),
		zap.Stringer("source", cfg.Source.Kind),
		zap.Int("candidates", len(candidates)),
		zap.Int("visible", len(visible)),
		zap.Bool("paginated", st.pagination != nil))

	// Detail regions nested in the block keep their own item template for
	// the detail pass.
	fragment, details := maskBlocks(fragment, markerDetail)
	st.queue = append([]ItemRecord(nil), visible...)
	out := r.renderItems(st, fragment)
	out = ReplaceBlocks(out, markerPagination, func(b Block) string {
		return r.renderPagination(st, b.Inner)
	})
	out = unmaskBlocks(out, details)
	out += GridAutoRowsStyles(cfg.GridProps, len(visible))

	st.blocks = append(st.blocks, out)
	return out, nil
}

func (r *Renderer) renderDetail(ctx context.Context, st *renderState, inner string) (string, error) {
	payload, fragment, _ := ExtractConfig(inner, markerDetail)
	source := ParseDetailSource(payload)
	items, err := r.resolver.Resolve(ctx, source, 1)
	if err != nil {
		return "", err
	}
	r.log.Debug("detail block", zap.String("item", source.ItemID), zap.Int("found", len(items)))

	st.pagination = nil
	st.queue = items
	return r.renderItems(st, fragment), nil
}

// renderItems expands the item template once per queued item. A template
// met with an empty queue renders nothing.
func (r *Renderer) renderItems(st *renderState, fragment string) string {
	return ReplaceBlocks(fragment, markerItem, func(b Block) string {
		var sb strings.Builder
		for len(st.queue) > 0 {
			st.current, st.queue = st.queue[0], st.queue[1:]
			unit := ApplyItem(b.Inner, st.current)
			html := unit.HTML
			if unit.MissingImage && r.opts.MissingImageClass != "" {
				html = addClass(html, r.opts.ItemClass, r.opts.MissingImageClass)
			}
			sb.WriteString(html)
		}
		st.current = ItemRecord{}
		return sb.String()
	})
}

func (r *Renderer) renderPagination(st *renderState, inner string) string {
	if st.pagination == nil {
		return ""
	}
	return r.opts.Pagination.RenderPagination(*st.pagination, peekConfig(inner, markerPagination))
}

// offsetFor returns the request offset for the block at position.
func (r *Renderer) offsetFor(position int) int {
	req := r.opts.Request
	if req.Position > 0 && req.Position != position {
		return 0
	}
	return req.Offset
}

func (r *Renderer) pageID() string {
	if r.opts.Request.PageID != "" {
		return r.opts.Request.PageID
	}
	return r.opts.PageID
}
