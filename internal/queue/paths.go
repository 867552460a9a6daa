package queue

import (
	"errors"
	"path/filepath"
	"strings"
)

// cleanItemDir resolves the working directory for an item. Empty means
// the configured download root; relative paths are anchored there.
// Anything escaping the root is rejected.
func cleanItemDir(dir, root string) (string, error) {
	if dir == "" {
		return root, nil
	}
	clean := filepath.Clean(dir)
	if !filepath.IsAbs(clean) {
		clean = filepath.Join(root, clean)
	}
	rel, err := filepath.Rel(root, clean)
	if err != nil {
		return "", errors.New("invalid dir")
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("dir must be within the download root")
	}
	return clean, nil
}

// cleanOutputPattern rejects patterns that would write outside the
// item's working directory. The pattern is otherwise passed verbatim to
// the worker.
func cleanOutputPattern(pattern string) (string, error) {
	if pattern == "" {
		return "", nil
	}
	if filepath.IsAbs(pattern) || strings.ContainsAny(pattern, "/\\") {
		return "", errors.New("output pattern must not contain path separators")
	}
	clean := filepath.Clean(pattern)
	if clean == "." || clean == ".." {
		return "", errors.New("invalid output pattern")
	}
	return pattern, nil
}
