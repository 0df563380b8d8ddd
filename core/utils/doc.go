// Package utils provides common utility functions for the registry service.
// It includes helper functions for converting scanned database values back to
// the text forms the reconciliation engine normalizes, and other shared logic
// that doesn't fit into domain-specific packages.
package utils
