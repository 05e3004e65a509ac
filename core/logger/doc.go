// Package logger provides a structured logging facility based on Zap.
//
// Level "debug" selects zap's development configuration; any other level uses
// the production configuration at that level. Format selects json or console
// encoding.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber context
// so every line logged for a request can be correlated. WithJob does the same
// for the worker, tagging lines with the job being processed.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
