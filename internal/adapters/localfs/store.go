// Package localfs implements document storage on the local filesystem.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// Store writes objects under root/bucket/key. It is the development stand-in
// for the hosted bucket service.
type Store struct {
	root      string
	publicURL string
}

// NewStore creates a filesystem store rooted at root. publicURL is the base
// for PublicURL results, e.g. "http://localhost:8080/files".
func NewStore(root, publicURL string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{
		root:      root,
		publicURL: strings.TrimRight(strings.TrimSpace(publicURL), "/"),
	}, nil
}

// objectPath resolves bucket/key inside the root, rejecting traversal.
func (s *Store) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", errors.New("bucket and key are required")
	}
	p := filepath.Join(s.root, filepath.Clean("/"+bucket), filepath.Clean("/"+key))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", errors.New("object path escapes storage root")
	}
	return p, nil
}

// Put stores content and returns the bucket-relative storage path.
func (s *Store) Put(_ context.Context, bucket, key string, content io.Reader) (string, error) {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}
	return bucket + "/" + key, nil
}

// Open returns a reader for a previously stored object.
func (s *Store) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (s *Store) Delete(_ context.Context, bucket, key string) error {
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PublicURL returns the externally reachable URL for an object.
func (s *Store) PublicURL(bucket, key string) string {
	if s.publicURL == "" {
		return ""
	}
	return s.publicURL + "/" + url.PathEscape(bucket) + "/" + url.PathEscape(key)
}

var _ ports.FileStore = (*Store)(nil)
