package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepipe/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sitepipe/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler factory Graft node.
const NodeID graft.ID = "engine.scheduler"

// Factory builds schedulers once the executor is known. The executor depends
// on the project configuration, which is only loaded when a command runs.
type Factory struct {
	tracer ports.Tracer
}

// NewFactory creates a Factory that instruments every scheduler with tracer.
func NewFactory(tracer ports.Tracer) *Factory {
	return &Factory{tracer: tracer}
}

// New creates a Scheduler that runs tasks with executor.
func (f *Factory) New(executor ports.Executor) *Scheduler {
	return NewScheduler(executor, f.tracer)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{telemetry.TracerNodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(tracer), nil
		},
	})
}
