package reconcile

// Index maps natural keys to canonical records for one entity type. The same
// structure is built from the incoming snapshot and from the persisted rows.
type Index struct {
	Descriptor *Descriptor

	// ByKey holds the first record seen for each key.
	ByKey map[string]Record

	// Collisions lists keys that appeared more than once, in input order.
	// The first occurrence wins; later ones are dropped and surfaced here as
	// a data-quality warning.
	Collisions []string
}

// BuildIndex indexes canonical records by natural key. Duplicate keys within
// the input keep the first occurrence and are recorded as collisions.
func BuildIndex(desc *Descriptor, records []Record) *Index {
	idx := &Index{
		Descriptor: desc,
		ByKey:      make(map[string]Record, len(records)),
	}
	for _, rec := range records {
		if _, seen := idx.ByKey[rec.Key]; seen {
			idx.Collisions = append(idx.Collisions, rec.Key)
			continue
		}
		idx.ByKey[rec.Key] = rec
	}
	return idx
}

// Has reports whether the index contains the given natural key.
func (i *Index) Has(key string) bool {
	_, ok := i.ByKey[key]
	return ok
}

// Len returns the number of distinct keys in the index.
func (i *Index) Len() int { return len(i.ByKey) }
