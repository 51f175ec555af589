package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Skufu/symptomdx/internal/apperr"
)

const bundleFile = "bundle.json"

// FileStore keeps the bundle as one JSON file in Dir. Put writes a temp file and
// renames it over the previous bundle. Get caches the decoded bundle until the
// file changes.
type FileStore struct {
	Dir string

	mu      sync.RWMutex
	cached  *Bundle
	modTime time.Time
	size    int64
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.Dir, bundleFile)
}

func (s *FileStore) Put(_ context.Context, b *Bundle) error {
	if !complete(b) {
		return fmt.Errorf("artifact: refusing to publish incomplete bundle %s", b.Version)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("artifact: marshal bundle: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "bundle-*.json.tmp")
	if err != nil {
		return fmt.Errorf("artifact: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact: write bundle: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact: sync bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifact: close bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		return fmt.Errorf("artifact: publish bundle: %w", err)
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	return nil
}

func (s *FileStore) Get(_ context.Context) (*Bundle, error) {
	info, err := os.Stat(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NewArtifactMissing("model")
	}
	if err != nil {
		return nil, apperr.NewInternalError("stat artifact bundle", err)
	}

	s.mu.RLock()
	if s.cached != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		b := s.cached
		s.mu.RUnlock()
		return b, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NewArtifactMissing("model")
	}
	if err != nil {
		return nil, apperr.NewInternalError("read artifact bundle", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, apperr.NewInternalError("decode artifact bundle", err)
	}

	s.mu.Lock()
	s.cached, s.modTime, s.size = &b, info.ModTime(), info.Size()
	s.mu.Unlock()
	return &b, nil
}
