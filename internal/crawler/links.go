package crawler

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/grobinson/webminer/internal/dom"
	"github.com/grobinson/webminer/internal/urlutil"
)

// ExtractLinks parses body and returns the absolute form of every
// anchor href that stays inside origin. The base URL resolves relative
// references. Unparseable documents yield no links.
func ExtractLinks(body []byte, base, origin string) []string {
	root, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var links []string
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return true
		}
		href, ok := dom.Attr(n, "href")
		if !ok {
			return true
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		resolved := urlutil.Resolve(base, href)
		if !urlutil.IsAbsolute(resolved) {
			return true
		}
		if !strings.HasPrefix(resolved, origin) {
			return true
		}
		links = append(links, resolved)
		return true
	})
	return links
}
