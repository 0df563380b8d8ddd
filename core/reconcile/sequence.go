package reconcile

// Sequence orders changesets for application. The reference depth is fixed at
// one level (dependents -> root), so the order is static:
//
//  1. root inserts and updates, so every referenced key exists first;
//  2. each dependent type's full batch, so dependent deletes land before the
//     root deletes that would orphan them;
//  3. root deletes last.
//
// Dependent inserts and updates whose root key is absent from both the store
// root index and the batch's root inserts are excluded from their batch and
// reported as orphans, never applied speculatively.
func Sequence(root *Changeset, dependents []*Changeset, storeRoot *Index) *Plan {
	known := make(map[string]struct{}, storeRoot.Len()+len(root.Inserts))
	for key := range storeRoot.ByKey {
		known[key] = struct{}{}
	}
	for _, rec := range root.Inserts {
		known[rec.Key] = struct{}{}
	}

	plan := &Plan{}

	upsert := Batch{Descriptor: root.Descriptor, Inserts: root.Inserts, Updates: root.Updates}
	if !upsert.empty() {
		plan.Batches = append(plan.Batches, upsert)
	}

	for _, dep := range dependents {
		batch := Batch{Descriptor: dep.Descriptor, Deletes: dep.Deletes}
		for _, rec := range dep.Inserts {
			if _, ok := known[rec.Ref]; !ok {
				plan.Orphans = append(plan.Orphans, OrphanRef{
					Entity: dep.Descriptor.Name,
					Key:    rec.Key,
					Ref:    rec.Ref,
				})
				continue
			}
			batch.Inserts = append(batch.Inserts, rec)
		}
		for _, upd := range dep.Updates {
			if _, ok := known[upd.Ref]; !ok {
				plan.Orphans = append(plan.Orphans, OrphanRef{
					Entity: dep.Descriptor.Name,
					Key:    upd.Key,
					Ref:    upd.Ref,
				})
				continue
			}
			batch.Updates = append(batch.Updates, upd)
		}
		if !batch.empty() {
			plan.Batches = append(plan.Batches, batch)
		}
	}

	if len(root.Deletes) > 0 {
		plan.Batches = append(plan.Batches, Batch{Descriptor: root.Descriptor, Deletes: root.Deletes})
	}

	return plan
}
