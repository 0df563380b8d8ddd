// Package sync orchestrates a reconciliation run end to end: release
// resolution, archive download and retention, snapshot extraction, diffing
// against the store and ordered application.
package sync
