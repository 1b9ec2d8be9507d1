package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/grobinson/webminer/internal/pipeline"
	_ "github.com/grobinson/webminer/internal/plugins/wikipedia"
	"github.com/grobinson/webminer/internal/processor"
	"github.com/grobinson/webminer/internal/query"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pages := map[string]string{
		"alpha.html": `<html><head><title>Alpha</title></head><body><p>fast cars</p></body></html>`,
		"beta.html":  `<html><head><title>Beta</title></head><body><p>slow boats</p></body></html>`,
		"gamma.html": `<html><head><title>Gamma</title></head><body><p>fast boats</p></body></html>`,
	}
	for name, body := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not html"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.html"), []byte("<html></html>"), 0o600))
	return dir
}

func TestProcessAllParallel(t *testing.T) {
	t.Parallel()
	dir := writeFixtures(t)

	p := pipeline.New(pipeline.Config{InputDir: dir, Threads: 3}, zaptest.NewLogger(t))
	defer p.Close()
	require.NoError(t, p.AddProcessor("generic"))

	records, err := p.ProcessAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	titles := map[string]bool{}
	for _, rec := range records {
		titles[rec.Title] = true
		require.True(t, filepath.IsAbs(rec.URL[len("file://"):]))
	}
	require.True(t, titles["Alpha"])
	require.True(t, titles["Beta"])
	require.True(t, titles["Gamma"])
}

func TestProcessAllSynchronous(t *testing.T) {
	t.Parallel()
	dir := writeFixtures(t)

	p := pipeline.New(pipeline.Config{InputDir: dir, Threads: 0}, zaptest.NewLogger(t))
	defer p.Close()
	require.NoError(t, p.AddProcessor("generic"))

	records, err := p.ProcessAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestProcessFiltered(t *testing.T) {
	t.Parallel()
	dir := writeFixtures(t)

	p := pipeline.New(pipeline.Config{InputDir: dir, Threads: 2}, zaptest.NewLogger(t))
	defer p.Close()
	require.NoError(t, p.AddProcessor("generic"))

	records, err := p.ProcessFiltered(context.Background(), query.NewText("fast", false))
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		require.Contains(t, rec.TextContent, "fast")
	}
}

func TestAddProcessorUnknownName(t *testing.T) {
	t.Parallel()
	p := pipeline.New(pipeline.Config{InputDir: t.TempDir()}, zaptest.NewLogger(t))
	defer p.Close()
	require.Error(t, p.AddProcessor("no-such-processor"))
}

func TestProcessAllWithoutProcessor(t *testing.T) {
	t.Parallel()
	p := pipeline.New(pipeline.Config{InputDir: t.TempDir()}, zaptest.NewLogger(t))
	defer p.Close()

	_, err := p.ProcessAll(context.Background())
	require.Error(t, err)
}

func TestProcessAllMissingDirectory(t *testing.T) {
	t.Parallel()
	p := pipeline.New(pipeline.Config{InputDir: filepath.Join(t.TempDir(), "missing")}, zaptest.NewLogger(t))
	defer p.Close()
	require.NoError(t, p.AddProcessor("generic"))

	_, err := p.ProcessAll(context.Background())
	require.Error(t, err)
}

func TestPluginProcessorAvailable(t *testing.T) {
	t.Parallel()
	p := pipeline.New(pipeline.Config{InputDir: t.TempDir()}, zaptest.NewLogger(t))
	defer p.Close()
	require.NoError(t, p.AddProcessor("wikipedia"))
}

func TestConfigureProcessor(t *testing.T) {
	t.Parallel()
	p := pipeline.New(pipeline.Config{InputDir: t.TempDir()}, zaptest.NewLogger(t))
	defer p.Close()

	require.NoError(t, p.ConfigureProcessor("wikipedia", processor.Options{"max_paragraphs": "2"}))
	require.NoError(t, p.ConfigureProcessor("generic", processor.Options{"ignored": "x"}))
	require.Error(t, p.ConfigureProcessor("no-such-processor", nil))
}
