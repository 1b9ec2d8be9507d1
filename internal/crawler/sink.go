package crawler

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/grobinson/webminer/internal/urlutil"
)

// FileSystemSink saves HTML snapshots under a single directory, one
// file per URL.
type FileSystemSink struct {
	root   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewFileSystemSink returns a sink rooted at root, creating it if
// needed.
func NewFileSystemSink(root string, logger *zap.Logger) (*FileSystemSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir %s: %w", root, err)
	}
	return &FileSystemSink{root: root, logger: logger}, nil
}

// Save writes body under the mangled filename for url and returns the
// path written. Writes are serialized; everything before and after the
// write runs unlocked.
func (s *FileSystemSink) Save(url string, body []byte) (string, error) {
	target := filepath.Join(s.root, urlutil.SafeFilename(url))

	s.mu.Lock()
	err := os.WriteFile(target, body, 0o600)
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", target, err)
	}
	s.logger.Debug("page saved", zap.String("url", url), zap.String("path", target))
	return target, nil
}
