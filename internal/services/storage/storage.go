package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ObjectStore persists finished media and returns a reference that
// publishers can fetch.
type ObjectStore interface {
	Put(ctx context.Context, localPath, name string) (string, error)
	Close() error
}

// LocalStore moves files into a directory, optionally served under a public base URL
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a store rooted at dir
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put moves localPath into the store under name
func (s *LocalStore) Put(_ context.Context, localPath, name string) (string, error) {
	name = filepath.Base(name)
	dst := filepath.Join(s.dir, name)

	if err := os.Rename(localPath, dst); err != nil {
		// Rename fails across filesystems, fall back to copying
		if err := copyFile(localPath, dst); err != nil {
			return "", fmt.Errorf("failed to store %s: %w", name, err)
		}
		_ = os.Remove(localPath)
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + url.PathEscape(name), nil
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return dst, nil
	}
	return abs, nil
}

func (s *LocalStore) Close() error { return nil }

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// objectName joins a prefix and file name with forward slashes
func objectName(prefix, name string) string {
	return path.Join(strings.Trim(prefix, "/"), path.Base(filepath.ToSlash(name)))
}
