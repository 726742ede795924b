// Package logging provides structured logging for Haven Core.
//
// It wraps the standard library's log/slog with service defaults:
// configurable level, JSON or text output, and default service/version
// attributes on every record.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("panel mounted", "extensions", 3)
//
// Component loggers are derived with With:
//
//	apiLog := log.With("component", "api")
package logging
