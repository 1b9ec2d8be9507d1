package dom_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/grobinson/webminer/internal/dom"
)

const sampleDoc = `<html><head><title>Sample</title>
<script>var hidden = true;</script></head>
<body>
<h1 id="top">Heading</h1>
<p>First <b>paragraph</b></p>
<div id="content"><p>Nested text</p></div>
</body></html>`

func TestText(t *testing.T) {
	t.Parallel()
	root, err := dom.ParseString(sampleDoc)
	require.NoError(t, err)

	text := dom.Text(root)
	require.Contains(t, text, "Heading")
	require.Contains(t, text, "First paragraph")
	require.NotContains(t, text, "hidden")
}

func TestAttr(t *testing.T) {
	t.Parallel()
	root, err := dom.ParseString(sampleDoc)
	require.NoError(t, err)

	h1 := dom.FindByID(root, "top")
	require.NotNil(t, h1)
	id, ok := dom.Attr(h1, "id")
	require.True(t, ok)
	require.Equal(t, "top", id)

	_, ok = dom.Attr(h1, "class")
	require.False(t, ok)
}

func TestFindByID(t *testing.T) {
	t.Parallel()
	root, err := dom.ParseString(sampleDoc)
	require.NoError(t, err)

	div := dom.FindByID(root, "content")
	require.NotNil(t, div)
	require.Equal(t, atom.Div, div.DataAtom)
	require.Equal(t, "Nested text", dom.Text(div))

	require.Nil(t, dom.FindByID(root, "missing"))
}

func TestIsHeading(t *testing.T) {
	t.Parallel()
	root, err := dom.ParseString(sampleDoc)
	require.NoError(t, err)

	var headings, paragraphs int
	dom.Walk(root, func(n *html.Node) bool {
		if dom.IsHeading(n) {
			headings++
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			paragraphs++
		}
		return true
	})
	require.Equal(t, 1, headings)
	require.Equal(t, 2, paragraphs)
}

func TestWalkSkipsChildrenOnFalse(t *testing.T) {
	t.Parallel()
	root, err := dom.ParseString(sampleDoc)
	require.NoError(t, err)

	var sawNested bool
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if id, _ := dom.Attr(n, "id"); id == "content" {
				return false
			}
		}
		if n.Type == html.TextNode && n.Data == "Nested text" {
			sawNested = true
		}
		return true
	})
	require.False(t, sawNested)
}
