package listing

import (
	"html"
	"strings"
)

// NoImageClass marks the hidden element that replaces an item's image region
// when the item has no image.
const NoImageClass = "none-post-image"

const noImagePlaceholder = `<div class="` + NoImageClass + `" style="display: none;"></div>`

// Unit is one rendered repetition of an item template.
type Unit struct {
	HTML string
	// MissingImage is set when the template had an image region and the item
	// had no image for it.
	MissingImage bool
}

// ApplyItem runs every field handler over one copy of an item template.
func ApplyItem(fragment string, item ItemRecord) Unit {
	missing := false
	out := ReplaceBlocks(fragment, markerHeader, func(b Block) string { return SetHeader(b.Inner, item) })
	out = ReplaceBlocks(out, markerContent, func(b Block) string { return SetContent(b.Inner, item) })
	out = ReplaceBlocks(out, markerImage, func(b Block) string {
		s, ok := SetImage(b.Inner, item)
		if !ok {
			missing = true
		}
		return s
	})
	out = ReplaceBlocks(out, markerReadmore, func(b Block) string { return SetReadmore(b.Inner, item) })
	out = ReplaceBlocks(out, markerMetadata, func(b Block) string { return SetMetadata(b.Inner, item) })
	out = ReplaceBlocks(out, markerTags, func(b Block) string { return SetTags(b.Inner, item) })
	return Unit{HTML: out, MissingImage: missing}
}

// SetHeader fills a header region. The link falls back to "#" when the item
// has a header but no link, so the header stays clickable.
func SetHeader(fragment string, item ItemRecord) string {
	return setLinked(fragment, item, markerHeaderContent, FieldHeader, FieldHeaderLink)
}

// SetReadmore fills a read-more region, with the same link rules as SetHeader.
func SetReadmore(fragment string, item ItemRecord) string {
	return setLinked(fragment, item, markerReadmoreContent, FieldReadmoreText, FieldReadmoreLink)
}

func setLinked(fragment string, item ItemRecord, marker string, text, link Field) string {
	out := replaceContent(fragment, marker, item, text)
	href, ok := item.Get(link)
	if !ok && item.Has(text) {
		href, ok = "#", true
	}
	if ok {
		out = rewriteAttr(out, "href", href)
	}
	return out
}

// SetContent fills a body content region.
func SetContent(fragment string, item ItemRecord) string {
	return replaceContent(fragment, markerContentContent, item, FieldContent)
}

// SetTags fills a tags region.
func SetTags(fragment string, item ItemRecord) string {
	return replaceContent(fragment, markerTagsContent, item, FieldTags)
}

// SetMetadata fills the date, author, category, comments and edit
// sub-regions of a metadata region.
func SetMetadata(fragment string, item ItemRecord) string {
	out := fragment
	for _, kind := range MetadataKinds {
		out = UnwrapBlocks(out, kind.marker())
		out = replaceContent(out, kind.contentMarker(), item, kind.Field())
	}
	return out
}

// SetImage fills an image region. A fragment with a <div> is a background
// image: its data-bg attribute is rewritten, or an inline background-image
// style is added. Otherwise the src of the <img> is rewritten. Without an
// image the region becomes the hidden placeholder and ok is false.
func SetImage(fragment string, item ItemRecord) (out string, ok bool) {
	src, has := item.Get(FieldImage)
	if !has || src == "" {
		return noImagePlaceholder, false
	}
	if !strings.Contains(fragment, "<div") {
		return rewriteAttr(fragment, "src", src), true
	}
	if _, _, found := findAttr(fragment, "data-bg"); found {
		return rewriteAttr(fragment, "data-bg", "url("+src+")"), true
	}
	return injectBackground(fragment, src), true
}

// replaceContent swaps the inner text of a content marker for the field
// value. An absent field keeps the template text.
func replaceContent(fragment, marker string, item ItemRecord, field Field) string {
	return ReplaceBlocks(fragment, marker, func(b Block) string {
		if v, ok := item.Get(field); ok {
			return v
		}
		return b.Inner
	})
}

// findAttr locates the value of the first name="..." or name='...' attribute.
// The name must follow whitespace, so "src" does not match "data-src".
func findAttr(fragment, name string) (start, end int, ok bool) {
	needle := name + "="
	from := 0
	for {
		i := strings.Index(fragment[from:], needle)
		if i < 0 {
			return 0, 0, false
		}
		at := from + i
		from = at + len(needle)
		if at == 0 || !isSpace(fragment[at-1]) || from >= len(fragment) {
			continue
		}
		quote := fragment[from]
		if quote != '"' && quote != '\'' {
			continue
		}
		closeAt := strings.IndexByte(fragment[from+1:], quote)
		if closeAt < 0 {
			return 0, 0, false
		}
		return from + 1, from + 1 + closeAt, true
	}
}

// rewriteAttr replaces the value of the first name attribute. The fragment is
// returned unchanged when there is none.
func rewriteAttr(fragment, name, value string) string {
	start, end, ok := findAttr(fragment, name)
	if !ok {
		return fragment
	}
	return fragment[:start] + html.EscapeString(value) + fragment[end:]
}

// injectBackground sets background-image on the first <div>, prepending to
// an existing style attribute of that tag if it has one.
func injectBackground(fragment, src string) string {
	decl := "background-image:url(" + html.EscapeString(src) + ")"
	div := strings.Index(fragment, "<div")
	tagEnd := strings.IndexByte(fragment[div:], '>')
	if tagEnd < 0 {
		tagEnd = len(fragment) - div
	}
	tag := fragment[div : div+tagEnd]
	if start, _, ok := findAttr(tag, "style"); ok {
		at := div + start
		return fragment[:at] + decl + ";" + fragment[at:]
	}
	at := div + len("<div")
	return fragment[:at] + ` style="` + decl + `"` + fragment[at:]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// addClass appends extra to the first class attribute whose value contains
// the class token target.
func addClass(fragment, target, extra string) string {
	from := 0
	for {
		start, end, ok := findAttr(fragment[from:], "class")
		if !ok {
			return fragment
		}
		start, end = from+start, from+end
		for _, c := range strings.Fields(fragment[start:end]) {
			if c == target {
				return fragment[:end] + " " + extra + fragment[end:]
			}
		}
		from = end
	}
}
