// Package database handles database connections for the registry store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// configure Postgres connections based on the application's configuration.
// A sqlite driver is included for local runs and tests.
//
// # Connect
//
// The Connect function establishes a connection, configures a small pool
// (the reconciliation pipeline is a single sequential pass) and verifies it
// with a ping before handing it out. The returned handle is passed explicitly
// to the store and never held as process-wide state.
//
// # Usage
//
//	db, err := database.Connect(cfg.DB)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
