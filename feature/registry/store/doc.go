// Package store persists registry entities through gorm: schema
// provisioning, full-table reads for the diff, and transactional batch
// application.
package store
