package listing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ListingConfig is the per-region configuration of a listing block.
type ListingConfig struct {
	Source SourceDescriptor
	// Count is the requested page size; 0 means all items on one page.
	Count int
	// GridProps is passed through to the grid style builder.
	GridProps json.RawMessage
}

// listingOptions mirrors the builder's blog_options_json payload.
type listingOptions struct {
	Type      string          `json:"type"`
	Source    flexString      `json:"source"`
	Tags      flexStrings     `json:"tags"`
	Count     flexInt         `json:"count"`
	GridProps json.RawMessage `json:"gridProps"`
}

// ParseListingConfig decodes a listing options payload. A nil or malformed
// payload yields the defaults: recent items, no count limit.
func ParseListingConfig(payload json.RawMessage) (ListingConfig, bool) {
	cfg := ListingConfig{Source: RecentItems()}
	if len(payload) == 0 {
		return cfg, false
	}

	var opts listingOptions
	if err := json.Unmarshal(payload, &opts); err != nil {
		return cfg, false
	}

	if strings.EqualFold(opts.Type, "tags") {
		cfg.Source = TagSet(opts.Tags...)
	} else {
		cfg.Source = ParseSource(string(opts.Source))
	}
	if opts.Count > 0 {
		cfg.Count = int(opts.Count)
	}
	if len(opts.GridProps) > 0 && !bytes.Equal(opts.GridProps, []byte("null")) {
		cfg.GridProps = opts.GridProps
	}
	return cfg, true
}

// detailOptions mirrors the builder's post_details_options_json payload.
type detailOptions struct {
	Source flexString `json:"source"`
}

// ParseDetailSource decodes a detail options payload. Detail regions only
// show explicit items; without a source they show nothing.
func ParseDetailSource(payload json.RawMessage) SourceDescriptor {
	if len(payload) == 0 {
		return ExplicitItem("")
	}
	var opts detailOptions
	if err := json.Unmarshal(payload, &opts); err != nil {
		return ExplicitItem("")
	}
	return ExplicitItem(strings.TrimPrefix(strings.TrimSpace(string(opts.Source)), itemPrefix))
}

// flexInt accepts 3, "3" and "" (as 0). Unparsable strings decode as 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if v, err := strconv.Atoi(num.String()); err == nil {
			*n = flexInt(v)
			return nil
		}
		if f, err := num.Float64(); err == nil {
			*n = flexInt(int(f))
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, _ := strconv.Atoi(strings.TrimSpace(s))
		*n = flexInt(v)
		return nil
	}
	*n = 0
	return nil
}

// flexString accepts strings and numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	*s = ""
	return nil
}

// flexStrings accepts "a, b" and ["a", "b"].
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = strings.Split(str, ",")
		return nil
	}
	*s = nil
	return nil
}
