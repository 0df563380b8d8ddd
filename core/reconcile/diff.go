package reconcile

// Diff partitions the union of snapshot and store keys into inserts, updates
// and deletes for one entity type. Every key lands in exactly one of the
// three sets or in the unchanged count, so diffing an unchanged snapshot
// yields zero operations. Output slices are sorted by key for deterministic
// runs.
func Diff(snapshot, store *Index) *Changeset {
	desc := snapshot.Descriptor
	cs := &Changeset{Descriptor: desc}

	for _, key := range sortedKeys(snapshot.ByKey) {
		snap := snapshot.ByKey[key]
		cur, exists := store.ByKey[key]
		if !exists {
			cs.Inserts = append(cs.Inserts, snap)
			continue
		}
		changes := compareFields(desc, cur, snap)
		if len(changes) == 0 {
			cs.Unchanged++
			continue
		}
		cs.Updates = append(cs.Updates, Update{Key: key, Ref: snap.Ref, Changes: changes})
	}

	for _, key := range sortedKeys(store.ByKey) {
		if !snapshot.Has(key) {
			cs.Deletes = append(cs.Deletes, key)
		}
	}

	return cs
}

// compareFields walks the declared attribute order and collects every column
// whose normalized values differ. Key columns are identical by construction
// and are not compared.
func compareFields(desc *Descriptor, stored, snap Record) []FieldChange {
	var changes []FieldChange
	for _, spec := range desc.Attributes {
		oldVal := stored.Fields[spec.Column]
		newVal := snap.Fields[spec.Column]
		if !oldVal.Equal(newVal) {
			changes = append(changes, FieldChange{Column: spec.Column, Old: oldVal, New: newVal})
		}
	}
	return changes
}
