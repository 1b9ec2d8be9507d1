// Package wikipedia contributes a site-specific extractor for
// MediaWiki article pages, registered at startup.
package wikipedia

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/grobinson/webminer/internal/processor"
	"github.com/grobinson/webminer/internal/record"
)

func init() {
	processor.RegisterPlugin(processor.Metadata{
		Name:        "wikipedia",
		Version:     "1.0.0",
		Description: "Extracts article title, body paragraphs, categories, internal links, thumbnails, and infobox fields from MediaWiki pages",
	}, func(r *processor.Registry) {
		r.Register(New())
	})
}

// Section headings that mark the end of article prose.
var stopHeadings = map[string]struct{}{
	"see also":        {},
	"references":      {},
	"external links":  {},
	"further reading": {},
	"bibliography":    {},
	"notes":           {},
	"sources":         {},
	"gallery":         {},
	"awards":          {},
	"filmography":     {},
	"discography":     {},
	"works":           {},
	"publications":    {},
}

// Extractor pulls article content out of MediaWiki page markup.
type Extractor struct {
	maxParagraphs int
}

// New returns an Extractor with no paragraph limit.
func New() *Extractor {
	return &Extractor{}
}

// Name implements processor.Processor.
func (e *Extractor) Name() string { return "wikipedia" }

// Configure implements processor.Configurable. The max_paragraphs
// option caps how many body paragraphs are collected; zero or a
// non-numeric value means no cap.
func (e *Extractor) Configure(opts processor.Options) {
	if v, ok := opts["max_paragraphs"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.maxParagraphs = n
		}
	}
}

// Process implements processor.Processor.
func (e *Extractor) Process(url string, body []byte) (record.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return record.Record{}, fmt.Errorf("parse document: %w", err)
	}
	rec := record.New(url)
	rec.Title = strings.TrimSpace(doc.Find("#firstHeading").First().Text())

	var paragraphs []string
	doc.Find("#mw-content-text").Find("p, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Is("h2") || s.Is("h3") {
			heading := strings.ToLower(strings.TrimSpace(s.Text()))
			heading = strings.TrimSpace(strings.TrimSuffix(heading, "[edit]"))
			_, stop := stopHeadings[heading]
			return !stop
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		return e.maxParagraphs == 0 || len(paragraphs) < e.maxParagraphs
	})
	rec.TextContent = strings.Join(paragraphs, "\n\n")

	doc.Find("#mw-normal-catlinks li a, a[href^='/wiki/Category:']").Each(func(_ int, s *goquery.Selection) {
		keyword := strings.TrimSpace(s.Text())
		if keyword == "" {
			return
		}
		for _, k := range rec.Keywords {
			if k == keyword {
				return
			}
		}
		rec.Keywords = append(rec.Keywords, keyword)
	})

	// Article links only: relative /wiki/ hrefs, excluding special
	// pages like File: and Category:, rewritten to absolute form.
	seenLinks := map[string]struct{}{}
	doc.Find("#mw-content-text a[href][title]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "http") ||
			!strings.Contains(href, "/wiki/") || strings.Contains(href, ":") {
			return
		}
		link := "https://en.wikipedia.org" + href
		if _, seen := seenLinks[link]; seen {
			return
		}
		seenLinks[link] = struct{}{}
		rec.Links = append(rec.Links, link)
	})

	seenImages := map[string]struct{}{}
	doc.Find("#mw-content-text img[class*='thumbimage']").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if src == "" {
			return
		}
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}
		if _, seen := seenImages[src]; seen {
			return
		}
		seenImages[src] = struct{}{}
		rec.Images = append(rec.Images, src)
	})

	e.extractInfobox(doc, &rec)
	return rec, nil
}

// extractInfobox copies the infobox's table rows into the record
// metadata under infobox_-prefixed keys.
func (e *Extractor) extractInfobox(doc *goquery.Document, rec *record.Record) {
	infobox := doc.Find("[class*='infobox']").First()
	if infobox.Length() == 0 {
		return
	}
	infobox.Find("tr").Each(func(_ int, row *goquery.Selection) {
		key := strings.TrimSpace(row.ChildrenFiltered("th").First().Text())
		value := strings.TrimSpace(row.ChildrenFiltered("td").First().Text())
		if key == "" || value == "" {
			return
		}
		rec.Metadata["infobox_"+key] = value
	})
}
