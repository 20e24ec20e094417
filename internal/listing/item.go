package listing

import (
	"encoding/json"
	"time"
)

// Field names an ItemRecord value.
type Field string

const (
	FieldHeader       Field = "post-header"
	FieldHeaderLink   Field = "post-header-link"
	FieldContent      Field = "post-content"
	FieldImage        Field = "post-image"
	FieldReadmoreText Field = "post-readmore-text"
	FieldReadmoreLink Field = "post-readmore-link"
	FieldTags         Field = "post-tags"
)

// MetadataKind is one of the metadata sub-regions of an item template.
type MetadataKind string

const (
	MetadataDate     MetadataKind = "date"
	MetadataAuthor   MetadataKind = "author"
	MetadataCategory MetadataKind = "category"
	MetadataComments MetadataKind = "comments"
	MetadataEdit     MetadataKind = "edit"
)

// MetadataKinds lists the metadata sub-regions in processing order.
var MetadataKinds = []MetadataKind{
	MetadataDate,
	MetadataAuthor,
	MetadataCategory,
	MetadataComments,
	MetadataEdit,
}

// Field returns the ItemRecord field holding this metadata value.
func (k MetadataKind) Field() Field { return Field("post-metadata-" + string(k)) }

func (k MetadataKind) marker() string { return markerMetadata + "_" + string(k) }

func (k MetadataKind) contentMarker() string { return k.marker() + "_content" }

// ItemRecord holds the display values of one content item. A field that is
// absent keeps the template's default content; a field set to "" removes it.
// ItemRecord is immutable.
type ItemRecord struct {
	id     string
	fields map[Field]string
}

// NewItemRecord copies fields into a new record.
func NewItemRecord(id string, fields map[Field]string) ItemRecord {
	cp := make(map[Field]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return ItemRecord{id: id, fields: cp}
}

// ID returns the content item id.
func (r ItemRecord) ID() string { return r.id }

// Get returns a field value and whether it is present.
func (r ItemRecord) Get(f Field) (string, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Has reports whether a field is present.
func (r ItemRecord) Has(f Field) bool {
	_, ok := r.fields[f]
	return ok
}

// Len returns the number of present fields.
func (r ItemRecord) Len() int { return len(r.fields) }

// MarshalJSON encodes the record as {"id": ..., "fields": {...}}.
func (r ItemRecord) MarshalJSON() ([]byte, error) {
	fields := r.fields
	if fields == nil {
		fields = map[Field]string{}
	}
	return json.Marshal(struct {
		ID     string           `json:"id"`
		Fields map[Field]string `json:"fields"`
	}{r.id, fields})
}

// RawItem is a content item as the Source returns it, before it is mapped to
// display fields. Title and Author are plain text. Content, Category and Tags
// are trusted HTML.
type RawItem struct {
	ID       string
	Title    string
	Link     string // explicit link; ItemURL(ID) is used when empty
	Content  string
	Image    string
	ReadMore string
	Date     time.Time
	Author   string
	Category string
	// CommentCount is nil when comments are not tracked for the item.
	CommentCount *int
	EditLink     string
	Tags         string
}
