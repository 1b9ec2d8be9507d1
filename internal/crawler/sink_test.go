package crawler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/grobinson/webminer/internal/crawler"
)

func TestSinkSave(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sink, err := crawler.NewFileSystemSink(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	path, err := sink.Save("http://site.test/a/b", []byte("<html></html>"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "http_site.test_a_b.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))
}

func TestSinkCreatesRoot(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "deep", "output")
	_, err := crawler.NewFileSystemSink(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestSinkOverwritesExistingSnapshot(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sink, err := crawler.NewFileSystemSink(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = sink.Save("http://site.test/p", []byte("old"))
	require.NoError(t, err)
	path, err := sink.Save("http://site.test/p", []byte("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}
