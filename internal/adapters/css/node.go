package css

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepipe/internal/core/ports"
)

const (
	// PurgerNodeID provides the unused-rule purger.
	PurgerNodeID graft.ID = "adapter.css.purger"
	// MinifierNodeID provides the CSS minifier.
	MinifierNodeID graft.ID = "adapter.css.minifier"
)

func init() {
	graft.Register(graft.Node[ports.Purger]{
		ID:        PurgerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Purger, error) {
			return NewPurger(), nil
		},
	})

	graft.Register(graft.Node[ports.StyleMinifier]{
		ID:        MinifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StyleMinifier, error) {
			return NewMinifier(), nil
		},
	})
}
