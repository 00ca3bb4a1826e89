package ports

// InputResolver defines the interface for resolving input files.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs expands the given root-relative glob patterns into a sorted,
	// de-duplicated list of absolute file paths. Patterns matching nothing are
	// not an error.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
