package listing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Marker names understood by the renderer.
const (
	markerListing    = "blog"
	markerDetail     = "post_details"
	markerItem       = "blog_post"
	markerPagination = "blog_pagination"

	markerHeader          = "blog_post_header"
	markerHeaderContent   = "blog_post_header_content"
	markerContent         = "blog_post_content"
	markerContentContent  = "blog_post_content_content"
	markerImage           = "blog_post_image"
	markerReadmore        = "blog_post_readmore"
	markerReadmoreContent = "blog_post_readmore_content"
	markerMetadata        = "blog_post_metadata"
	markerTags            = "blog_post_tags"
	markerTagsContent     = "blog_post_tags_content"

	optionsSuffix = "_options_json"
)

// Block is one <!--name-->...<!--/name--> region of a text.
type Block struct {
	// Start and End delimit the whole region, markers included.
	Start, End int
	// Inner is the text between the two markers.
	Inner string
}

// OpenMarker returns the opening comment for a marker name.
func OpenMarker(name string) string { return "<!--" + name + "-->" }

// CloseMarker returns the closing comment for a marker name.
func CloseMarker(name string) string { return "<!--/" + name + "-->" }

// FindBlock returns the first region named name in text.
//
// The region ends at the first closing marker in the text and starts at the
// nearest opening marker before it, so the shortest enclosed span wins:
//
//   - a closing marker with no opening marker before it is skipped;
//   - an opening marker with no closing marker after it is not a block;
//   - of two opening markers before one closing marker, the later one pairs
//     and the earlier one stays in the text.
//
// An empty region (<!--x--><!--/x-->) is a valid block with empty Inner.
func FindBlock(text, name string) (Block, bool) {
	return findBlockFrom(text, name, 0)
}

func findBlockFrom(text, name string, from int) (Block, bool) {
	open, closing := OpenMarker(name), CloseMarker(name)
	for from < len(text) {
		c := strings.Index(text[from:], closing)
		if c < 0 {
			return Block{}, false
		}
		closeAt := from + c
		o := strings.LastIndex(text[from:closeAt], open)
		if o < 0 {
			// Stray closing marker.
			from = closeAt + len(closing)
			continue
		}
		start := from + o
		return Block{
			Start: start,
			End:   closeAt + len(closing),
			Inner: text[start+len(open) : closeAt],
		}, true
	}
	return Block{}, false
}

// ReplaceBlocks replaces every region named name with fn's result. Scanning
// resumes after each replaced region, so fn's output is never rescanned.
func ReplaceBlocks(text, name string, fn func(Block) string) string {
	out, _ := replaceBlocksErr(text, name, func(b Block) (string, error) {
		return fn(b), nil
	})
	return out
}

// replaceBlocksErr is ReplaceBlocks for callbacks that can fail. The first
// error stops the scan.
func replaceBlocksErr(text, name string, fn func(Block) (string, error)) (string, error) {
	b, ok := findBlockFrom(text, name, 0)
	if !ok {
		return text, nil
	}

	var sb strings.Builder
	sb.Grow(len(text))
	pos := 0
	for ok {
		sb.WriteString(text[pos:b.Start])
		repl, err := fn(b)
		if err != nil {
			return text, err
		}
		sb.WriteString(repl)
		pos = b.End
		b, ok = findBlockFrom(text, name, pos)
	}
	sb.WriteString(text[pos:])
	return sb.String(), nil
}

// maskBlocks swaps every region named name for a placeholder and returns the
// regions in order, for unmaskBlocks to put back.
func maskBlocks(text, name string) (string, []string) {
	var spans []string
	out := ReplaceBlocks(text, name, func(b Block) string {
		spans = append(spans, text[b.Start:b.End])
		return maskPlaceholder(len(spans) - 1)
	})
	return out, spans
}

func unmaskBlocks(text string, spans []string) string {
	for i, span := range spans {
		text = strings.Replace(text, maskPlaceholder(i), span, 1)
	}
	return text
}

func maskPlaceholder(i int) string {
	return "\x00mask:" + strconv.Itoa(i) + "\x00"
}

// UnwrapBlocks replaces every region named name with its inner text.
func UnwrapBlocks(text, name string) string {
	return ReplaceBlocks(text, name, func(b Block) string { return b.Inner })
}

// ExtractConfig finds the options payload of a region,
//
//	<!--name_options_json--><!--{...}--><!--/name_options_json-->
//
// and returns the fragment with that marker removed. found reports whether the
// marker was present. payload is nil when the marker is absent or its content
// is not valid JSON. Only the first options marker is removed.
func ExtractConfig(fragment, name string) (payload json.RawMessage, rest string, found bool) {
	b, ok := FindBlock(fragment, name+optionsSuffix)
	if !ok {
		return nil, fragment, false
	}
	rest = fragment[:b.Start] + fragment[b.End:]

	inner := strings.TrimSpace(b.Inner)
	if !strings.HasPrefix(inner, "<!--") || !strings.HasSuffix(inner, "-->") || len(inner) < len("<!---->") {
		return nil, rest, true
	}
	data := []byte(inner[len("<!--") : len(inner)-len("-->")])
	if !json.Valid(data) {
		return nil, rest, true
	}
	return json.RawMessage(data), rest, true
}

// peekConfig is ExtractConfig without the removal.
func peekConfig(fragment, name string) json.RawMessage {
	payload, _, _ := ExtractConfig(fragment, name)
	return payload
}
