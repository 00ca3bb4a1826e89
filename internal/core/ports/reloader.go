package ports

import "context"

// Reloader signals connected preview clients to refresh.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Reload broadcasts a reload event. It never blocks on slow clients.
	Reload(ctx context.Context) error
}
