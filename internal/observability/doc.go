// Package observability groups logging and metrics support for the
// ingestion and scoring pipeline.
package observability
