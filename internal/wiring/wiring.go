// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sitepipe/internal/adapters/config"
	_ "go.trai.ch/sitepipe/internal/adapters/css"
	_ "go.trai.ch/sitepipe/internal/adapters/esbuild"
	_ "go.trai.ch/sitepipe/internal/adapters/fs"
	_ "go.trai.ch/sitepipe/internal/adapters/imaging"
	_ "go.trai.ch/sitepipe/internal/adapters/linear"
	_ "go.trai.ch/sitepipe/internal/adapters/logger"
	_ "go.trai.ch/sitepipe/internal/adapters/preview"
	_ "go.trai.ch/sitepipe/internal/adapters/sass"
	_ "go.trai.ch/sitepipe/internal/adapters/shell"
	_ "go.trai.ch/sitepipe/internal/adapters/telemetry"
	_ "go.trai.ch/sitepipe/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/sitepipe/internal/app"
	_ "go.trai.ch/sitepipe/internal/engine/scheduler"
)
