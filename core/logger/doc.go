// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with the Fiber query API.
//
// # Context Awareness
//
// Two helpers scope log entries to a unit of work:
//   - WithRayID extracts the request RayID from a Fiber context so every log
//     line of one HTTP request can be correlated.
//   - WithRun tags entries with the reconciliation run identifier so a full
//     sync invocation reads as one thread in the logs.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
package logger
