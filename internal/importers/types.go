package importers

import "time"

// FrontMatter is the YAML header of a markdown article.
type FrontMatter struct {
	Title    string   `yaml:"title"`
	Alias    string   `yaml:"alias"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Image    string   `yaml:"image"`
	Author   string   `yaml:"author"`
	// Date accepts RFC 3339, "2006-01-02 15:04[:05]" or "2006-01-02".
	Date      string `yaml:"date"`
	Published *bool  `yaml:"published"`
	ReadMore  string `yaml:"readmore"`
	Comments  *int   `yaml:"comments"`
}

// ImportedFile records which article a source file was imported into.
type ImportedFile struct {
	Path        string    `json:"path"`
	ContentHash string    `json:"content_hash"`
	ArticleID   string    `json:"article_id"`
	ImportedAt  time.Time `json:"imported_at"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Found     int      `json:"found"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
