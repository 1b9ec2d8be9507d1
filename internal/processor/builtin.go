package processor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/grobinson/webminer/internal/dom"
	"github.com/grobinson/webminer/internal/record"
)

// RegisterBuiltins adds the generic, text, metadata, and links
// processors to r.
func RegisterBuiltins(r *Registry) {
	r.Register(Generic{})
	r.Register(Text{})
	r.Register(MetadataExtractor{})
	r.Register(Links{})
}

// Generic extracts the title, paragraph and heading text, links,
// images, and the raw document body.
type Generic struct{}

// Name implements Processor.
func (Generic) Name() string { return "generic" }

// Process implements Processor.
func (Generic) Process(url string, body []byte) (record.Record, error) {
	root, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return record.Record{}, fmt.Errorf("parse document: %w", err)
	}
	rec := record.New(url)
	rec.HTMLContent = string(body)

	var text strings.Builder
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch {
		case n.DataAtom == atom.Title:
			if rec.Title == "" {
				if c := n.FirstChild; c != nil && c.Type == html.TextNode {
					rec.Title = c.Data
				}
			}
		case n.DataAtom == atom.P || dom.IsHeading(n):
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					text.WriteString(c.Data)
					text.WriteString(" ")
				}
			}
		case n.DataAtom == atom.A:
			if href, ok := dom.Attr(n, "href"); ok {
				rec.Links = append(rec.Links, href)
			}
		case n.DataAtom == atom.Img:
			if src, ok := dom.Attr(n, "src"); ok {
				rec.Images = append(rec.Images, src)
			}
		}
		return true
	})
	rec.TextContent = text.String()
	return rec, nil
}

// Text is the generic extractor under the name used for text-focused
// runs.
type Text struct{}

// Name implements Processor.
func (Text) Name() string { return "text" }

// Process implements Processor.
func (Text) Process(url string, body []byte) (record.Record, error) {
	return Generic{}.Process(url, body)
}

// MetadataExtractor collects meta tag name/content pairs and the page
// title.
type MetadataExtractor struct{}

// Name implements Processor.
func (MetadataExtractor) Name() string { return "metadata" }

// Process implements Processor.
func (MetadataExtractor) Process(url string, body []byte) (record.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return record.Record{}, fmt.Errorf("parse document: %w", err)
	}
	rec := record.New(url)
	rec.Title = doc.Find("title").First().Text()
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if name, ok := s.Attr("name"); ok {
			rec.Metadata[name] = content
		}
		// property is read after name so it wins when one tag carries
		// both under the same key.
		if prop, ok := s.Attr("property"); ok {
			rec.Metadata[prop] = content
		}
	})
	return rec, nil
}

// Links collects anchor hrefs and image sources without retaining the
// document body.
type Links struct{}

// Name implements Processor.
func (Links) Name() string { return "links" }

// Process implements Processor.
func (Links) Process(url string, body []byte) (record.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return record.Record{}, fmt.Errorf("parse document: %w", err)
	}
	rec := record.New(url)
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			rec.Links = append(rec.Links, href)
		}
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			rec.Images = append(rec.Images, src)
		}
	})
	return rec, nil
}
