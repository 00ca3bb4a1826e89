package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepipe/internal/core/ports"
)

const (
	// PrefixerNodeID provides the vendor prefixer.
	PrefixerNodeID graft.ID = "adapter.esbuild.prefixer"
	// MinifierNodeID provides the script minifier.
	MinifierNodeID graft.ID = "adapter.esbuild.minifier"
)

func init() {
	graft.Register(graft.Node[ports.Prefixer]{
		ID:        PrefixerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Prefixer, error) {
			return NewTransformer(), nil
		},
	})

	graft.Register(graft.Node[ports.ScriptMinifier]{
		ID:        MinifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ScriptMinifier, error) {
			return NewTransformer(), nil
		},
	})
}
