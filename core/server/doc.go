// Package server holds the HTTP query API configuration.
//
// The main application entry point handles server startup; this package only
// defines the configuration structure for it.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key protecting the
// read-only registry endpoints.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings.
package server
