package reconcile

import (
	"sort"
	"strings"
	"time"
)

// KeySeparator joins the values of a composite natural key into one string.
// It never appears in RNCP identifiers.
const KeySeparator = "|"

// DateLayout is the day-first layout used by the registry CSV exports.
const DateLayout = "02/01/2006"

// FieldKind declares how a column is typed during normalization.
type FieldKind int

const (
	// FieldText compares after trimming, as plain text.
	FieldText FieldKind = iota
	// FieldDate parses with the descriptor layout and compares by value,
	// so "01/02/2024" and " 01/02/2024 " are the same date.
	FieldDate
)

// FieldSpec describes one comparable attribute column of an entity type.
type FieldSpec struct {
	// Column is the store column name, also used as the CSV header name.
	Column string

	// Kind selects the normalization applied to the raw value.
	Kind FieldKind
}

// Descriptor declares the typed schema of one entity type: its natural-key
// columns, its comparable attributes in declared order, and the column (if
// any) referencing the root entity.
type Descriptor struct {
	// Name identifies the entity type in logs and reports (e.g. "fiches").
	Name string

	// Table is the store table backing this entity type.
	Table string

	// KeyColumns are the natural-key columns, in key order. A row missing
	// any of them is malformed.
	KeyColumns []string

	// KeyDefaults substitutes a placeholder for an empty key column instead
	// of rejecting the row. Used for registry partners whose SIRET can be
	// blank in the source data.
	KeyDefaults map[string]string

	// Attributes are the comparable columns in declared order. Key columns
	// are not listed here.
	Attributes []FieldSpec

	// RefColumn is the key column referencing the root entity. Empty for
	// the root entity type itself.
	RefColumn string
}

// Root reports whether this entity type is the root of the dependency order.
func (d *Descriptor) Root() bool { return d.RefColumn == "" }

// Columns returns all store columns, key columns first.
func (d *Descriptor) Columns() []string {
	cols := make([]string, 0, len(d.KeyColumns)+len(d.Attributes))
	cols = append(cols, d.KeyColumns...)
	for _, a := range d.Attributes {
		cols = append(cols, a.Column)
	}
	return cols
}

// Value is a normalized field value. The zero Value is the explicit "absent"
// state, which equals no present value.
type Value struct {
	// Present is false when the source cell was empty or missing.
	Present bool

	// Kind mirrors the FieldSpec kind that produced this value. A date
	// column whose text does not parse degrades to FieldText.
	Kind FieldKind

	// Raw is the trimmed source text.
	Raw string

	// Date holds the parsed value for FieldDate kinds.
	Date time.Time
}

// Equal reports whether two normalized values are the same: both absent, or
// both present and equal under their kind (dates by parsed value).
func (v Value) Equal(o Value) bool {
	if !v.Present || !o.Present {
		return v.Present == o.Present
	}
	if v.Kind == FieldDate && o.Kind == FieldDate {
		return v.Date.Equal(o.Date)
	}
	return v.Raw == o.Raw
}

// String renders the value for logs and change reasons.
func (v Value) String() string {
	if !v.Present {
		return "<absent>"
	}
	return v.Raw
}

// Record is one canonical entity record: natural key, root reference, and a
// column -> value mapping covering key and attribute columns.
type Record struct {
	// Key is the natural key, composite columns joined with KeySeparator.
	Key string

	// Ref is the referenced root-entity key. Empty for root records.
	Ref string

	// Fields maps every descriptor column to its normalized value. Key
	// columns are always present.
	Fields map[string]Value
}

// FieldChange is one changed column within an update, old store value and new
// snapshot value side by side.
type FieldChange struct {
	Column string
	Old    Value
	New    Value
}

// Update carries the natural key plus only the columns that differ. It is
// deliberately not a full replace.
type Update struct {
	Key     string
	Ref     string
	Changes []FieldChange
}

// Changeset is the diff of one entity type: disjoint inserts, updates and
// deletes, plus the count of keys that needed nothing.
type Changeset struct {
	Descriptor *Descriptor
	Inserts    []Record
	Updates    []Update
	Deletes    []string
	Unchanged  int
}

// Empty reports whether the changeset contains no operations.
func (c *Changeset) Empty() bool {
	return len(c.Inserts) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

// Batch is the unit of application: a slice of one entity type's operations
// executed inside a single transaction.
type Batch struct {
	Descriptor *Descriptor
	Inserts    []Record
	Updates    []Update
	Deletes    []string
}

func (b *Batch) empty() bool {
	return len(b.Inserts) == 0 && len(b.Updates) == 0 && len(b.Deletes) == 0
}

// OrphanRef identifies a dependent operation excluded because its root key is
// absent from both the store and the batch's root inserts.
type OrphanRef struct {
	Entity string
	Key    string
	Ref    string
}

// Plan is the ordered application sequence produced by Sequence.
type Plan struct {
	Batches []Batch
	Orphans []OrphanRef
}

// EntityReport aggregates the per-entity outcome of one reconciliation run.
type EntityReport struct {
	Entity     string `json:"entity"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
	Unchanged  int    `json:"unchanged"`
	Skipped    int    `json:"skipped"`
	Collisions int    `json:"collisions"`
	Orphans    int    `json:"orphans"`
	Failed     bool   `json:"failed"`
}

// Report collects entity reports for a run, in first-touch order.
type Report struct {
	entities map[string]*EntityReport
	order    []string
}

// NewReport returns an empty run report.
func NewReport() *Report {
	return &Report{entities: make(map[string]*EntityReport)}
}

// Entity returns the report for the named entity type, creating it on first
// use.
func (r *Report) Entity(name string) *EntityReport {
	if e, ok := r.entities[name]; ok {
		return e
	}
	e := &EntityReport{Entity: name}
	r.entities[name] = e
	r.order = append(r.order, name)
	return e
}

// Entities returns the per-entity reports in first-touch order.
func (r *Report) Entities() []*EntityReport {
	out := make([]*EntityReport, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entities[name])
	}
	return out
}

// Failed reports whether any entity batch failed or was held back.
func (r *Report) Failed() bool {
	for _, e := range r.entities {
		if e.Failed {
			return true
		}
	}
	return false
}

// joinKey builds a natural key from ordered key-column values.
func joinKey(parts []string) string {
	return strings.Join(parts, KeySeparator)
}

// sortedKeys returns map keys in ascending order, for deterministic output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
