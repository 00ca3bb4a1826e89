package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitepipe/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/css"     //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/esbuild" //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/imaging" //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/linear"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/preview" //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/sass"    //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/sitepipe/internal/engine/scheduler"
	"go.trai.ch/sitepipe/internal/engine/steps"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
	// StepsNodeID is the unique identifier for the leaf operation adapters.
	StepsNodeID graft.ID = "app.steps"
)

func init() {
	graft.Register(graft.Node[steps.Deps]{
		ID:        StepsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ResolverNodeID,
			sass.NodeID,
			esbuild.PrefixerNodeID,
			esbuild.MinifierNodeID,
			css.PurgerNodeID,
			css.MinifierNodeID,
			imaging.NodeID,
			shell.NodeID,
		},
		Run: runStepsNode,
	})

	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			linear.NodeID,
			scheduler.NodeID,
			preview.FactoryNodeID,
			watcher.WatcherNodeID,
			watcher.FilterNodeID,
			StepsNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runStepsNode(ctx context.Context) (steps.Deps, error) {
	var deps steps.Deps
	var err error

	if deps.Resolver, err = graft.Dep[ports.InputResolver](ctx); err != nil {
		return deps, err
	}
	if deps.Compiler, err = graft.Dep[ports.StyleCompiler](ctx); err != nil {
		return deps, err
	}
	if deps.Prefixer, err = graft.Dep[ports.Prefixer](ctx); err != nil {
		return deps, err
	}
	if deps.ScriptMinifier, err = graft.Dep[ports.ScriptMinifier](ctx); err != nil {
		return deps, err
	}
	if deps.Purger, err = graft.Dep[ports.Purger](ctx); err != nil {
		return deps, err
	}
	if deps.StyleMinifier, err = graft.Dep[ports.StyleMinifier](ctx); err != nil {
		return deps, err
	}
	if deps.Images, err = graft.Dep[ports.ImageOptimizer](ctx); err != nil {
		return deps, err
	}
	if deps.Commands, err = graft.Dep[ports.CommandRunner](ctx); err != nil {
		return deps, err
	}
	return deps, nil
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	schedulers, err := graft.Dep[*scheduler.Factory](ctx)
	if err != nil {
		return nil, err
	}

	previews, err := graft.Dep[*preview.Factory](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	filter, err := graft.Dep[*watcher.ContentFilter](ctx)
	if err != nil {
		return nil, err
	}

	deps, err := graft.Dep[steps.Deps](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, renderer, schedulers, previews, w, filter, deps), nil
}
