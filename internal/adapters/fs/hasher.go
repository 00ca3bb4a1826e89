package fs

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests of files and output trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeTreeHash digests the relative path and content hash of every file
// below root. A missing root hashes like an empty directory.
func (h *Hasher) ComputeTreeHash(root string) (uint64, error) {
	digest := xxhash.New()

	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return digest.Sum64(), nil
		}
		return 0, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", root)
	}

	for path := range h.walker.WalkFiles(root, nil) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}

		sum, err := h.ComputeFileHash(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// removed while walking (a concurrent clean)
				continue
			}
			return 0, err
		}

		_, _ = digest.WriteString(filepath.ToSlash(rel))
		_, _ = digest.Write([]byte{0})
		if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
			return 0, zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return digest.Sum64(), nil
}
