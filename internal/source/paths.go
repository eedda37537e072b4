package source

import (
	"path/filepath"
	"strings"
)

// AbsolutePath returns a cleaned, slash-separated absolute path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. Paths that would escape
// baseDir fall back to the absolute form, so output never starts with "../".
func RelativePath(path, baseDir string) (string, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	base, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return abs, nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return abs, nil
	}
	return rel, nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}
