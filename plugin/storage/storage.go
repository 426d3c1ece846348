// Package storage persists uploaded blobs on the local filesystem under
// the instance data directory and serves them back through the /o/ route.
package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStorage writes blobs beneath a root directory and maps every stored
// path to a public url on the instance.
type LocalStorage struct {
	root        string
	instanceURL string
}

// NewLocalStorage creates a LocalStorage rooted at dir. instanceURL is the
// externally reachable base url without a trailing slash.
func NewLocalStorage(dir string, instanceURL string) *LocalStorage {
	return &LocalStorage{
		root:        dir,
		instanceURL: strings.TrimSuffix(instanceURL, "/"),
	}
}

// Put writes data at the given slash-separated relative path, creating
// parent directories as needed. The content type is recorded by callers that
// need it; local files carry none.
func (s *LocalStorage) Put(_ context.Context, path string, data []byte, _ string) error {
	osPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(osPath), os.ModePerm); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}
	if err := os.WriteFile(osPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return nil
}

// Read returns the blob stored at path.
func (s *LocalStorage) Read(path string) ([]byte, error) {
	osPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(osPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, "file not found")
		}
		return nil, errors.Wrap(err, "failed to read file")
	}
	return data, nil
}

// Remove deletes the blob stored at path. Removing a missing blob is not an
// error.
func (s *LocalStorage) Remove(path string) error {
	osPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(osPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove file")
	}
	return nil
}

// PublicURL returns the url a client uses to fetch the blob at path. Each
// path segment is percent-escaped so the url decodes back to the stored
// path when served.
func (s *LocalStorage) PublicURL(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.instanceURL + "/o/" + strings.Join(segments, "/")
}

// resolve maps a slash-separated relative path onto the root directory,
// rejecting traversal outside of it.
func (s *LocalStorage) resolve(path string) (string, error) {
	cleaned := filepath.FromSlash(path)
	if filepath.IsAbs(cleaned) || !filepath.IsLocal(cleaned) {
		return "", errors.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.root, cleaned), nil
}
