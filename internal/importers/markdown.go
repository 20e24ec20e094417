package importers

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	frontMatterDelim = []byte("---")
	headingRegex     = regexp.MustCompile(`^#\s+(.+)$`)
	dateLayouts      = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}
)

// ParseMarkdown splits a markdown article into its front matter and body.
// Without a title in the front matter, a leading "# heading" becomes the
// title and is removed from the body.
func ParseMarkdown(data []byte) (FrontMatter, string, error) {
	var fm FrontMatter
	body := data

	trimmed := bytes.TrimPrefix(data, []byte("\ufeff"))
	if bytes.HasPrefix(trimmed, frontMatterDelim) {
		rest := trimmed[len(frontMatterDelim):]
		if i := bytes.IndexByte(rest, '\n'); i >= 0 && len(bytes.TrimSpace(rest[:i])) == 0 {
			rest = rest[i+1:]
			end := closingDelim(rest)
			if end < 0 {
				return fm, "", fmt.Errorf("front matter is not closed")
			}
			if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
				return fm, "", fmt.Errorf("parsing front matter: %w", err)
			}
			body = rest[end:]
			if j := bytes.IndexByte(body, '\n'); j >= 0 {
				body = body[j+1:]
			} else {
				body = nil
			}
		}
	}

	text := strings.TrimSpace(string(body))
	if strings.TrimSpace(fm.Title) == "" {
		first, rest, _ := strings.Cut(text, "\n")
		if m := headingRegex.FindStringSubmatch(strings.TrimSpace(first)); m != nil {
			fm.Title = strings.TrimSpace(m[1])
			text = strings.TrimSpace(rest)
		}
	}
	fm.Title = strings.TrimSpace(fm.Title)
	return fm, text, nil
}

// closingDelim returns the offset of the line holding the closing "---".
func closingDelim(b []byte) int {
	offset := 0
	for len(b) > 0 {
		line := b
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line = b[:i]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelim) {
			return offset
		}
		if len(line) == len(b) {
			break
		}
		offset += len(line) + 1
		b = b[len(line)+1:]
	}
	return -1
}

// PublishDate parses the front matter date. An empty date is the zero time.
func (fm FrontMatter) PublishDate() (time.Time, error) {
	if strings.TrimSpace(fm.Date) == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(fm.Date)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", fm.Date)
}
