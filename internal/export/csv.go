package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/grobinson/webminer/internal/record"
)

// Long text fields are cut to this many characters in CSV output.
const csvTruncateLen = 1000

var csvHeader = []string{
	"URL", "Title", "Text Content", "HTML Content", "Keywords", "Links", "Images",
}

// CSV writes records to path. Every field is quoted, embedded quotes
// are doubled, and the text and HTML columns are truncated to keep
// rows manageable. The vector columns are emitted empty.
func CSV(records []record.Record, path string) error {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, rec := range records {
		writeCSVRow(&b, []string{
			rec.URL,
			rec.Title,
			truncate(rec.TextContent, csvTruncateLen),
			truncate(rec.HTMLContent, csvTruncateLen),
			"",
			"",
			"",
		})
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
