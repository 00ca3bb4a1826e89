package preview

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepipe/internal/adapters/fs"
	"go.trai.ch/sitepipe/internal/adapters/logger"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
)

const (
	// MetricsNodeID provides the preview and rebuild metrics.
	MetricsNodeID graft.ID = "adapter.preview.metrics"
	// FactoryNodeID provides the preview server factory.
	FactoryNodeID graft.ID = "adapter.preview"
)

// Factory creates preview servers once the configuration is known.
type Factory struct {
	hasher  ports.Hasher
	logger  ports.Logger
	metrics *Metrics
}

// NewFactory creates a Factory.
func NewFactory(hasher ports.Hasher, logger ports.Logger, metrics *Metrics) *Factory {
	return &Factory{hasher: hasher, logger: logger, metrics: metrics}
}

// New creates a server for the output directory root.
func (f *Factory) New(cfg domain.PreviewConfig, root string) *Server {
	return New(cfg, root, f.hasher, f.logger, f.metrics)
}

// Metrics returns the shared collectors.
func (f *Factory) Metrics() *Metrics {
	return f.metrics
}

func init() {
	graft.Register(graft.Node[*Metrics]{
		ID:        MetricsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Metrics, error) {
			return NewMetrics(nil), nil
		},
	})

	graft.Register(graft.Node[*Factory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, logger.NodeID, MetricsNodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			metrics, err := graft.Dep[*Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(hasher, log, metrics), nil
		},
	})
}
