// Package app assembles the server process: configuration, logging, the
// stats and health services, the pipeline run manager and the chi router
// with its middleware chain. The cmd/server binary is a thin wrapper around
// New and Run.
package app
