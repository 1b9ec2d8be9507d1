package wikipedia_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/grobinson/webminer/internal/plugins/wikipedia"
	"github.com/grobinson/webminer/internal/processor"
)

const articleDoc = `<html><body>
<h1 id="firstHeading">Go (programming language)</h1>
<table class="infobox vcard"><tbody>
<tr><th>Designed by</th><td>Robert Griesemer</td></tr>
<tr><th>First appeared</th><td>2009</td></tr>
<tr><td colspan="2">caption row without a header</td></tr>
</tbody></table>
<div id="mw-content-text">
<p>Go is a statically typed language.</p>
<h2>History</h2>
<p>It was announced in 2009.</p>
<a href="/wiki/Concurrency" title="Concurrency">Concurrency</a>
<a href="/wiki/Concurrency" title="Concurrency">repeat</a>
<a href="/wiki/File:Gopher.png" title="File:Gopher.png">special page</a>
<a href="https://golang.org" title="external">external</a>
<a href="/wiki/Channel_(programming)">no title attribute</a>
<img class="thumbimage" src="//upload.wiki.test/gopher.png">
<img class="thumbimage" src="//upload.wiki.test/gopher.png">
<img src="/images/decoration.png">
<h2>See also</h2>
<p>This trailing paragraph is boilerplate.</p>
</div>
<div id="mw-normal-catlinks"><ul>
<li><a href="/wiki/Category:Programming_languages">Programming languages</a></li>
<li><a href="/wiki/Category:Google_software">Google software</a></li>
</ul></div>
</body></html>`

func TestProcessExtractsArticle(t *testing.T) {
	t.Parallel()
	rec, err := wikipedia.New().Process("http://wiki.test/go", []byte(articleDoc))
	require.NoError(t, err)

	require.Equal(t, "Go (programming language)", rec.Title)
	require.Contains(t, rec.TextContent, "statically typed")
	require.Contains(t, rec.TextContent, "announced in 2009")
	require.NotContains(t, rec.TextContent, "boilerplate")

	require.Contains(t, rec.Keywords, "Programming languages")
	require.Contains(t, rec.Keywords, "Google software")
}

func TestProcessKeepsInternalLinksOnly(t *testing.T) {
	t.Parallel()
	rec, err := wikipedia.New().Process("http://wiki.test/go", []byte(articleDoc))
	require.NoError(t, err)

	require.Equal(t, []string{"https://en.wikipedia.org/wiki/Concurrency"}, rec.Links)
}

func TestProcessKeepsThumbnailImagesOnly(t *testing.T) {
	t.Parallel()
	rec, err := wikipedia.New().Process("http://wiki.test/go", []byte(articleDoc))
	require.NoError(t, err)

	require.Equal(t, []string{"https://upload.wiki.test/gopher.png"}, rec.Images)
}

func TestProcessExtractsInfobox(t *testing.T) {
	t.Parallel()
	rec, err := wikipedia.New().Process("http://wiki.test/go", []byte(articleDoc))
	require.NoError(t, err)

	require.Equal(t, "Robert Griesemer", rec.Metadata["infobox_Designed by"])
	require.Equal(t, "2009", rec.Metadata["infobox_First appeared"])
	for key := range rec.Metadata {
		require.NotContains(t, key, "caption")
	}
}

func TestConfigureMaxParagraphs(t *testing.T) {
	t.Parallel()
	e := wikipedia.New()
	e.Configure(processor.Options{"max_paragraphs": "1"})

	rec, err := e.Process("http://wiki.test/go", []byte(articleDoc))
	require.NoError(t, err)
	require.Contains(t, rec.TextContent, "statically typed")
	require.NotContains(t, rec.TextContent, "announced in 2009")
}

func TestPluginRegistration(t *testing.T) {
	t.Parallel()
	r := processor.NewRegistry()
	processor.LoadPlugins(r, zaptest.NewLogger(t))

	p, ok := r.Get("wikipedia")
	require.True(t, ok)
	require.Equal(t, "wikipedia", p.Name())
}
