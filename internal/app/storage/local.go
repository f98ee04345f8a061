package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// localStore implements Service on the local filesystem. Stored images are
// served from the /uploads/ path.
type localStore struct {
	dir string
}

func newLocalStore(dir string) (*localStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

// Save writes the image under the upload directory. The key is always a
// server-generated id plus extension, never client input.
func (s *localStore) Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "/uploads/" + key, nil
}
