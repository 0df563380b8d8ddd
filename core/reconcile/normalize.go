package reconcile

import (
	"strings"
	"time"
)

// Normalize converts one raw row (column name -> string value) into a
// canonical Record for the given entity type. It is a pure function: it
// trims whitespace, maps empty cells to the explicit absent value, parses
// declared date columns, and fails with a MalformedRecordError when a
// required key column is empty and has no declared placeholder.
func Normalize(desc *Descriptor, row map[string]string) (Record, error) {
	fields := make(map[string]Value, len(desc.KeyColumns)+len(desc.Attributes))

	keyParts := make([]string, 0, len(desc.KeyColumns))
	for _, col := range desc.KeyColumns {
		raw := strings.TrimSpace(row[col])
		if raw == "" {
			if def, ok := desc.KeyDefaults[col]; ok {
				raw = def
			} else {
				return Record{}, &MalformedRecordError{Entity: desc.Name, Column: col}
			}
		}
		keyParts = append(keyParts, raw)
		fields[col] = Value{Present: true, Kind: FieldText, Raw: raw}
	}

	for _, spec := range desc.Attributes {
		fields[spec.Column] = normalizeValue(spec, row[spec.Column])
	}

	rec := Record{Key: joinKey(keyParts), Fields: fields}
	if desc.RefColumn != "" {
		rec.Ref = fields[desc.RefColumn].Raw
	}
	return rec, nil
}

// normalizeValue trims and types one attribute cell. A non-empty date cell
// that does not parse keeps its text form, so comparison degrades to text
// instead of dropping data.
func normalizeValue(spec FieldSpec, raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{}
	}
	if spec.Kind == FieldDate {
		if t, err := time.Parse(DateLayout, raw); err == nil {
			return Value{Present: true, Kind: FieldDate, Raw: raw, Date: t}
		}
	}
	return Value{Present: true, Kind: FieldText, Raw: raw}
}

// NormalizeAll converts a sequence of raw rows, skipping malformed ones.
// It returns the canonical records and the number of rows skipped.
func NormalizeAll(desc *Descriptor, rows []map[string]string) ([]Record, int) {
	records := make([]Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec, err := Normalize(desc, row)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}
