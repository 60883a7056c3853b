// Package operations orchestrates pipeline runs.
//
// # Architecture
//
// A run executes a fixed sequence of steps: load raw tables, clean teams,
// clean games, derive features, aggregate team statistics, and export the
// processed artifacts. Steps implement the Step interface and are held in a
// Registry; registration order is execution order, and a step's declared
// dependencies must already be registered.
//
// The Manager executes steps sequentially with per-step panic recovery. A
// failed or panicking step marks its dependents skipped, but steps with no
// path to the failure still run, so one broken artifact never suppresses the
// others. Each run is identified by a UUID and its state can be queried
// while running and after completion.
//
// # Usage
//
//	registry := operations.NewRegistry()
//	if err := operations.RegisterPipelineSteps(registry, store, paths, exporter, season, logger); err != nil {
//		return err
//	}
//
//	manager := operations.NewManager(registry, logger)
//	result, err := manager.Execute(ctx)
//
// Steps communicate through the RunState context: each step reads the table
// its dependency produced and stores its own output under a well-known key.
package operations
