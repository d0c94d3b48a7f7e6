package records

import "fmt"

// Field names a column of a record type.
type Field string

// FieldSpec describes one column of a record type.
type FieldSpec struct {
	Name       Field
	PrimaryKey bool
	Unique     bool
	// Generated columns are filled in by the database (auto-increment keys).
	Generated bool
}

// Schema is the field lookup table for one record type. Every field a caller
// passes to a Repository is checked against it.
type Schema struct {
	Table  string
	fields []FieldSpec
	index  map[Field]FieldSpec
}

// NewSchema builds a schema. Field order matters: it is the column order of
// returned rows and decides which field the upsert rewrites.
func NewSchema(table string, fields ...FieldSpec) Schema {
	index := make(map[Field]FieldSpec, len(fields))
	for _, f := range fields {
		index[f.Name] = f
	}
	return Schema{Table: table, fields: fields, index: index}
}

// Fields returns all fields in declaration order.
func (s Schema) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.Name)
	}
	return out
}

// Has reports whether f is a column of this record type.
func (s Schema) Has(f Field) bool {
	_, ok := s.index[f]
	return ok
}

// PrimaryKey returns the primary key fields in declaration order.
func (s Schema) PrimaryKey() []Field {
	var out []Field
	for _, f := range s.fields {
		if f.PrimaryKey {
			out = append(out, f.Name)
		}
	}
	return out
}

// isConflictTarget reports whether f carries a uniqueness constraint.
func (s Schema) isConflictTarget(f Field) bool {
	spec := s.index[f]
	return spec.Unique || spec.PrimaryKey
}

// upsertTarget returns the first field the database does not generate.
func (s Schema) upsertTarget() (Field, bool) {
	for _, f := range s.fields {
		if !f.Generated {
			return f.Name, true
		}
	}
	return "", false
}

func (s Schema) validate(fields ...Field) error {
	for _, f := range fields {
		if !s.Has(f) {
			return fmt.Errorf("%w: %q is not a field of %s", ErrInvalidField, f, s.Table)
		}
	}
	return nil
}

// ordered returns the keys of m that are fields of s, in schema order.
// Callers validate m first so no key is dropped.
func ordered[V any](s Schema, m map[Field]V) []Field {
	out := make([]Field, 0, len(m))
	for _, f := range s.fields {
		if _, ok := m[f.Name]; ok {
			out = append(out, f.Name)
		}
	}
	return out
}

func keys[V any](m map[Field]V) []Field {
	out := make([]Field, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	return out
}
