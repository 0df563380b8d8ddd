// Package reconcile implements the snapshot reconciliation engine: given the
// latest published snapshot of an entity type and the rows currently persisted
// for it, compute the minimal set of inserts, updates and deletes and apply
// them in an order that never breaks referential integrity.
//
// # Pipeline
//
// Raw CSV rows go through four stages:
//
//  1. Normalize: one raw row (column -> string) becomes a canonical Record
//     with a stable natural key and typed, trimmed values. Rows missing a
//     required key column are skipped, not fatal.
//
//  2. Index: canonical records become a key -> record map. Duplicate keys
//     within one snapshot keep the first occurrence; collisions are counted
//     and surfaced, never silently overwritten.
//
//  3. Diff: a snapshot index and a store index of the same entity type are
//     partitioned into inserts, field-level updates and deletes. An update
//     carries only the changed columns, so an unchanged snapshot produces
//     zero operations.
//
//  4. Sequence + Apply: changesets for the root entity (fiches) and its
//     dependents are ordered so that root inserts/updates land first,
//     dependent deletes land before root deletes, and dependent rows whose
//     root is absent from both the store and the batch are excluded as
//     orphans. Each batch runs in one transaction; a batch failure halts
//     every later batch.
//
// The package is store-agnostic: persistence goes through the Store
// interface, implemented by feature/registry/store on top of GORM.
package reconcile
