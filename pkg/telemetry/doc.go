// Package telemetry provides structured logging and Prometheus metrics
// for the resolution engine. The Logger wraps zerolog with component
// child loggers and context propagation; Metrics counts commands,
// resolutions and removals on a private registry with an optional HTTP
// exposition endpoint.
package telemetry
