// Package record defines the structured output produced for each
// processed HTML document.
package record

import "time"

// Record is the result of running one extractor over one document.
// A Record is immutable once the extractor that built it returns.
type Record struct {
	URL           string            `json:"url"`
	Title         string            `json:"title"`
	TextContent   string            `json:"text_content"`
	HTMLContent   string            `json:"html_content"`
	Keywords      []string          `json:"keywords"`
	Links         []string          `json:"links"`
	Images        []string          `json:"images"`
	Metadata      map[string]string `json:"metadata"`
	ProcessedTime time.Time         `json:"-"`
}

// New returns an empty Record for url stamped with the current UTC
// time. Collection fields are initialized so exporters always see
// arrays rather than nulls.
func New(url string) Record {
	return Record{
		URL:           url,
		Keywords:      []string{},
		Links:         []string{},
		Images:        []string{},
		Metadata:      map[string]string{},
		ProcessedTime: time.Now().UTC(),
	}
}
