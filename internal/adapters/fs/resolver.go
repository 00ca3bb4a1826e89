package fs

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using doublestar globs.
// Patterns prefixed with "!" exclude previously matched files.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs resolves the given input patterns to a list of concrete file paths.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	fsys := os.DirFS(root)
	matched := make(map[string]struct{})
	var excludes []string

	for _, input := range inputs {
		if neg, ok := strings.CutPrefix(input, "!"); ok {
			excludes = append(excludes, path.Clean(neg))
			continue
		}

		pattern := path.Clean(filepath.ToSlash(input))
		if !doublestar.ValidatePattern(pattern) {
			return nil, zerr.With(domain.ErrInputResolutionFailed, "pattern", input)
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInputResolutionFailed.Error()), "pattern", input)
		}
		for _, m := range matches {
			matched[m] = struct{}{}
		}
	}

	result := make([]string, 0, len(matched))
	for rel := range matched {
		if excluded(rel, excludes) {
			continue
		}
		result = append(result, filepath.Join(root, filepath.FromSlash(rel)))
	}
	slices.Sort(result)

	return result, nil
}

func excluded(rel string, excludes []string) bool {
	for _, pattern := range excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
