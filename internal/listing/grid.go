package listing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// breakpoint is a responsive layout step of the builder.
type breakpoint struct {
	name     string
	maxWidth int // 0 for the widest step, which needs no media query
}

var breakpoints = []breakpoint{
	{"xl", 0},
	{"lg", 1199},
	{"md", 991},
	{"sm", 767},
	{"xs", 575},
}

// GridProps is the part of a listing's gridProps the style builder uses.
type GridProps struct {
	// Selector addresses the grid container of the block.
	Selector string `json:"selector"`
	// Columns maps breakpoint names (xl, lg, md, sm, xs) to column counts.
	// A missing breakpoint inherits from the next wider one.
	Columns map[string]int `json:"columns"`
	// RowHeight is the CSS track size of each row; "auto" when empty.
	RowHeight string `json:"rowHeight"`
}

// GridAutoRowsStyles returns a <style> element that sizes a block's grid to
// the number of rendered items, one rule per breakpoint. It returns "" when
// nothing was rendered or the props do not describe a grid.
func GridAutoRowsStyles(props json.RawMessage, count int) string {
	if count <= 0 || len(props) == 0 {
		return ""
	}
	var gp GridProps
	if err := json.Unmarshal(props, &gp); err != nil {
		return ""
	}
	selector := strings.TrimSpace(gp.Selector)
	if selector == "" || len(gp.Columns) == 0 || strings.ContainsAny(selector, "{}<>") {
		return ""
	}
	track := strings.TrimSpace(gp.RowHeight)
	if track == "" || strings.ContainsAny(track, "{};<>") {
		track = "auto"
	}

	var sb strings.Builder
	cols := 0
	lastRows := 0
	for _, bp := range breakpoints {
		if c, ok := gp.Columns[bp.name]; ok && c > 0 {
			cols = c
		}
		if cols == 0 {
			continue
		}
		rows := (count + cols - 1) / cols
		if rows == lastRows {
			continue
		}
		lastRows = rows
		rule := fmt.Sprintf("%s{grid-template-rows:repeat(%d, %s)}", selector, rows, track)
		if bp.maxWidth == 0 {
			sb.WriteString(rule)
		} else {
			fmt.Fprintf(&sb, "@media (max-width:%dpx){%s}", bp.maxWidth, rule)
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return "<style>" + sb.String() + "</style>"
}
