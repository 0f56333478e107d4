// Package wiring registers all graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/parc/internal/adapters/config"
	_ "go.trai.ch/parc/internal/adapters/fs"
	_ "go.trai.ch/parc/internal/adapters/logger"
	_ "go.trai.ch/parc/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/parc/internal/app"
)
