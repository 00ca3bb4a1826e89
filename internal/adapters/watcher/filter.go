package watcher

import (
	"sync"

	"go.trai.ch/sitepipe/internal/core/ports"
)

// ContentFilter drops write events that leave a file's content unchanged,
// such as editors re-saving or touching a file.
type ContentFilter struct {
	hasher ports.Hasher

	mu     sync.Mutex
	hashes map[string]uint64
}

// NewContentFilter creates a filter backed by hasher.
func NewContentFilter(hasher ports.Hasher) *ContentFilter {
	return &ContentFilter{
		hasher: hasher,
		hashes: make(map[string]uint64),
	}
}

// Seed records the current content hash of path without reporting a change.
func (f *ContentFilter) Seed(path string) {
	sum, err := f.hasher.ComputeFileHash(path)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.hashes[path] = sum
	f.mu.Unlock()
}

// Changed reports whether event represents a real change.
// Creates, removes and renames always count; writes count when the content
// hash differs from the last one seen. Unhashable paths count as changed.
func (f *ContentFilter) Changed(event ports.WatchEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if event.Operation == ports.OpRemove || event.Operation == ports.OpRename {
		delete(f.hashes, event.Path)
		return true
	}

	sum, err := f.hasher.ComputeFileHash(event.Path)
	if err != nil {
		delete(f.hashes, event.Path)
		return true
	}

	prev, seen := f.hashes[event.Path]
	f.hashes[event.Path] = sum
	if event.Operation == ports.OpCreate {
		return true
	}
	return !seen || prev != sum
}
