package reconcile

import "context"

// Store is the sole mutation surface of the persisted registry. FetchAll
// feeds the store index; Apply executes one batch inside a single
// transaction, rolling everything back on any failure so partial application
// within one entity type is never observable.
type Store interface {
	// FetchAll returns every persisted row of the entity type as raw
	// column -> string maps, ready for Normalize.
	FetchAll(ctx context.Context, desc *Descriptor) ([]map[string]string, error)

	// Apply executes the batch atomically: all inserts, updates and deletes
	// commit together or not at all.
	Apply(ctx context.Context, batch Batch) error
}

// ApplyPlan executes the plan's batches in sequence order, recording
// per-entity counts in the report. The first batch failure rolls that batch
// back, marks the entity failed, and halts every later batch to protect the
// referential invariant; earlier committed batches stay committed.
func ApplyPlan(ctx context.Context, store Store, plan *Plan, report *Report) error {
	for i, batch := range plan.Batches {
		entity := report.Entity(batch.Descriptor.Name)
		if err := store.Apply(ctx, batch); err != nil {
			entity.Failed = true
			for _, later := range plan.Batches[i+1:] {
				report.Entity(later.Descriptor.Name).Failed = true
			}
			return &ApplyError{Entity: batch.Descriptor.Name, Err: err}
		}
		entity.Inserted += len(batch.Inserts)
		entity.Updated += len(batch.Updates)
		entity.Deleted += len(batch.Deletes)
	}
	return nil
}
