// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/idmap/internal/adapters/config"
	_ "go.trai.ch/idmap/internal/adapters/logger"
	_ "go.trai.ch/idmap/internal/adapters/store"
	_ "go.trai.ch/idmap/internal/adapters/telemetry"
	_ "go.trai.ch/idmap/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/idmap/internal/app"
	_ "go.trai.ch/idmap/internal/engine/identity"
	_ "go.trai.ch/idmap/internal/engine/mapper"
)
