package ports

// Hasher defines the interface for computing content hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash computes the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)
	// ComputeTreeHash computes a digest over every file path and content below root.
	// A missing root hashes to the same value as an empty one.
	ComputeTreeHash(root string) (uint64, error)
}
