// Package http contains the HTTP handlers for the API surface.
//
// Handlers are thin: they validate request parameters, delegate to the
// service or operations layer, and render JSON with go-chi/render. Errors
// flow through errors.ErrorHandler, which maps them onto RFC 7807 problem
// responses with a trace_id extension for log correlation.
//
// Each handler exposes a Routes() chi.Router so the server can mount it
// under its API prefix:
//
//	r.Mount("/rankings", handlers.NewRankingsHandler(stats, logger, eh).Routes())
//	r.Mount("/runs", handlers.NewRunsHandler(manager, logger, eh).Routes())
//	r.Mount("/health", handlers.NewHealthHandler(health, logger).Routes())
package http
