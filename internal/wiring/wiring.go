// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/gourmet/internal/adapters/compiler"
	_ "go.trai.ch/gourmet/internal/adapters/config"
	_ "go.trai.ch/gourmet/internal/adapters/hot"
	_ "go.trai.ch/gourmet/internal/adapters/logger"
	_ "go.trai.ch/gourmet/internal/adapters/telemetry"
	_ "go.trai.ch/gourmet/internal/adapters/watcher"
	// Register the app nodes.
	_ "go.trai.ch/gourmet/internal/app"
)
