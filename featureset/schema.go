package featureset

import "fmt"

// Kind is the numeric kind a schema field expects.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
)

// Field describes one column of a classifier's input schema: its name, the
// numeric kind it is coerced to, and the clinically plausible baseline used
// when the caller supplies nothing usable for it.
type Field struct {
	Name    string
	Kind    Kind
	Default float64
}

// Schema is the ordered field list a trained classifier expects. It is
// resolved once when the classifier artifact is loaded and is immutable
// afterwards.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from an ordered field list. Field order is
// preserved exactly as given.
func NewSchema(fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema must declare at least one field")
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field %d has an empty name", i)
		}
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("schema declares field %q twice", f.Name)
		}
		index[f.Name] = i
	}

	return &Schema{
		fields: append([]Field(nil), fields...),
		index:  index,
	}, nil
}

// Len returns the number of fields the schema declares.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the ordered field list.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Names returns the field names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field with the given name and its position.
func (s *Schema) Lookup(name string) (Field, int, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, 0, false
	}
	return s.fields[i], i, true
}

// Baseline returns a complete vector holding every field's default value.
func (s *Schema) Baseline() Vector {
	values := make([]float64, len(s.fields))
	for i, f := range s.fields {
		values[i] = f.Default
	}
	return Vector{schema: s, values: values}
}

// Vector is an ordered numeric record aligned to a Schema. It always holds
// exactly the schema's fields in the schema's order.
type Vector struct {
	schema *Schema
	values []float64
}

// Schema returns the schema this vector is aligned to.
func (v Vector) Schema() *Schema {
	return v.schema
}

// Len returns the number of values in the vector.
func (v Vector) Len() int {
	return len(v.values)
}

// Values returns a copy of the values in schema order.
func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

// Float32s returns the values in schema order, narrowed for tensor input.
func (v Vector) Float32s() []float32 {
	out := make([]float32, len(v.values))
	for i, val := range v.values {
		out[i] = float32(val)
	}
	return out
}

// Value returns the value of the named field.
func (v Vector) Value(name string) (float64, bool) {
	if v.schema == nil {
		return 0, false
	}
	_, i, ok := v.schema.Lookup(name)
	if !ok {
		return 0, false
	}
	return v.values[i], true
}
