// Package storage saves uploaded thumbnail files under a fixed directory.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ThumbnailStore writes uploaded images into a fixed directory and hands
// back the sanitized filename the Post row should reference. Files are
// never deleted here; an orphaned file after a failed insert is acceptable.
type ThumbnailStore struct {
	dir string
}

// NewThumbnailStore creates the upload directory if absent and returns a
// store bound to it.
func NewThumbnailStore(dir string) (*ThumbnailStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &ThumbnailStore{dir: dir}, nil
}

// Dir returns the directory thumbnails are written to.
func (s *ThumbnailStore) Dir() string {
	return s.dir
}

// Store sanitizes the uploaded file's name, writes its bytes into the
// upload directory, and returns the sanitized filename. A nil file means
// no upload was supplied and yields ("", nil). Write failures propagate so
// the caller can surface them instead of silently dropping the post.
func (s *ThumbnailStore) Store(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}

	name := SanitizeFilename(file.Filename)
	if name == "" {
		return "", fmt.Errorf("uploaded filename %q is empty after sanitizing", file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create thumbnail file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write thumbnail file: %w", err)
	}

	return name, nil
}

// SanitizeFilename strips directory components and unsafe characters from
// a client-supplied filename. Spaces become underscores; anything outside
// [A-Za-z0-9_.-] is dropped; leading dots are removed so the result can
// never be a hidden file or a path escape. Returns "" when nothing safe
// remains.
func SanitizeFilename(name string) string {
	// Client filenames may carry Windows separators.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "_" {
		return ""
	}
	return name
}
