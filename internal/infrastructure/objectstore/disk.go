package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"waybackhome/internal/ports/output"
)

var _ output.ObjectStore = (*DiskStore)(nil)

// DiskStore keeps objects under a root directory. The HTTP adapter serves
// that directory read-only at baseURL.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Root() string { return s.root }

func (s *DiskStore) Put(ctx context.Context, objectPath string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, full, err := s.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	if err := writeAtomic(full, data); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// writeAtomic writes data to a private temp file next to full and renames it
// into place, so concurrent writers never share a partial file.
func writeAtomic(full string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(full), ".put-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	// CreateTemp uses 0600; assets are served publicly.
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, full); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}

// DeletePrefix removes every object whose path starts with prefix. Prefixes
// are directory-shaped ("a/b/") so this is a recursive directory removal.
func (s *DiskStore) DeletePrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, full, err := s.resolve(prefix)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("delete prefix: %w", err)
	}
	return nil
}

// resolve cleans an object path into a key and maps it onto the root. The
// key is rooted before cleaning so ".." can never climb above the root.
func (s *DiskStore) resolve(objectPath string) (key, full string, err error) {
	key = strings.TrimPrefix(path.Clean("/"+objectPath), "/")
	if key == "" {
		return "", "", fmt.Errorf("object path %q is empty", objectPath)
	}
	return key, filepath.Join(s.root, filepath.FromSlash(key)), nil
}
