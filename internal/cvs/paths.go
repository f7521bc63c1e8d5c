package cvs

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

type PathResolver interface {
	// RelativeTo returns fullPath relative to base with forward slashes.
	RelativeTo(fullPath, base string) (string, error)
	// RootOf returns the working copy that contains path.
	RootOf(path string) (string, error)
}

// WorkspaceResolver resolves paths against a fixed set of working copies.
type WorkspaceResolver struct {
	roots []string
}

func NewWorkspaceResolver(roots ...string) *WorkspaceResolver {
	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		cleaned = append(cleaned, filepath.Clean(root))
	}
	// longest first so nested working copies win
	sort.Slice(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })

	return &WorkspaceResolver{roots: cleaned}
}

// RelativeTo implements PathResolver.
func (r *WorkspaceResolver) RelativeTo(fullPath, base string) (string, error) {
	rel, err := filepath.Rel(base, fullPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	return normalizePath(rel)
}

// RootOf implements PathResolver.
func (r *WorkspaceResolver) RootOf(p string) (string, error) {
	p = filepath.Clean(p)
	for _, root := range r.roots {
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			return root, nil
		}
	}

	return "", fmt.Errorf("%w: %s is outside of known working copies", ErrInvalidPath, p)
}

var _ PathResolver = (*WorkspaceResolver)(nil)

// normalizePath validates a working-copy relative path and converts it to
// the forward-slash form the client expects.
func normalizePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	slashed := filepath.ToSlash(p)
	if filepath.IsAbs(p) || path.IsAbs(slashed) || filepath.VolumeName(p) != "" {
		return "", fmt.Errorf("%w: %s is absolute", ErrInvalidPath, p)
	}

	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %s is outside of the working copy", ErrInvalidPath, p)
	}

	return cleaned, nil
}

func normalizePaths(paths []string) ([]string, error) {
	normalized := make([]string, 0, len(paths))
	for _, p := range paths {
		n, err := normalizePath(p)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, n)
	}

	return normalized, nil
}
