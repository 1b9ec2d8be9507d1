package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grobinson/webminer/internal/export"
	"github.com/grobinson/webminer/internal/record"
)

func sampleRecord(url string) record.Record {
	rec := record.New(url)
	rec.Title = "A Title"
	rec.TextContent = "some text"
	rec.HTMLContent = "<p>some text</p>"
	rec.Keywords = append(rec.Keywords, "kw")
	rec.Links = append(rec.Links, "http://site.test/next")
	rec.Images = append(rec.Images, "pic.png")
	rec.Metadata["author"] = "jones"
	return rec
}

func TestJSONWritesIndentedArray(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, export.JSON([]record.Record{sampleRecord("http://site.test/a")}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, json.Valid(data))
	require.Contains(t, string(data), "\n  {")
	require.NotContains(t, string(data), "processed_time")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "http://site.test/a", decoded[0]["url"])
	require.Equal(t, []any{"kw"}, decoded[0]["keywords"])
}

func TestJSONEmptyInput(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, export.JSON([]record.Record{}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}
