// Package services contains the business layer backing the HTTP handlers.
//
// StatsService reads the aggregated team statistics artifact produced by a
// pipeline run and serves it to the transport layer, caching the parsed
// table until the file changes on disk. HealthService reports liveness,
// readiness and version information for operational monitoring.
//
// Services return errors from the internal/errors package; the transport
// layer maps them onto RFC 7807 problem responses.
package services
