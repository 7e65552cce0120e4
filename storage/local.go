// Package storage writes pipeline output: cached images and the
// generated feed document under the uploads root, with an optional S3
// mirror.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Local writes files under a single uploads root.
type Local struct {
	root string
}

// NewLocal returns a writer rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads root %s: %w", dir, err)
	}
	return &Local{root: dir}, nil
}

// Root returns the uploads root directory.
func (l *Local) Root() string { return l.root }

// Path joins the given parts under the uploads root.
func (l *Local) Path(parts ...string) string {
	return filepath.Join(append([]string{l.root}, parts...)...)
}

// Exists reports whether a file is already present at the given path.
func (l *Local) Exists(parts ...string) bool {
	_, err := os.Stat(l.Path(parts...))
	return err == nil
}

// Write stores data at the given path, creating parent directories,
// and returns the absolute path written.
func (l *Local) Write(data []byte, parts ...string) (string, error) {
	path := l.Path(parts...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
