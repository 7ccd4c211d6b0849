package onnx

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/oncorisk/ovassess/featureset"
)

// LoadSchema reads a column sidecar and builds the ordered schema the model
// was trained against. Two historical sidecar shapes are accepted:
//
//	["Age", "Menopause", ...]                       bare name array
//	{"columns": [{"name": "Age", "kind": "int"}]}   annotated object
//
// Bare names resolve kind and baseline from the canonical field table, so
// older sidecars keep working after a field gains an annotation.
func LoadSchema(path string) (*featureset.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseColumns(raw)
}

// ParseColumns builds a schema from raw sidecar JSON.
func ParseColumns(raw []byte) (*featureset.Schema, error) {
	doc := gjson.ParseBytes(raw)

	var entries []gjson.Result
	switch {
	case doc.IsArray():
		entries = doc.Array()
	case doc.Get("columns").IsArray():
		entries = doc.Get("columns").Array()
	default:
		return nil, fmt.Errorf("sidecar is neither a name array nor a columns object")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("sidecar declares no columns")
	}

	fields := make([]featureset.Field, 0, len(entries))
	for i, entry := range entries {
		field, err := fieldFromEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		fields = append(fields, field)
	}

	return featureset.NewSchema(fields)
}

func fieldFromEntry(entry gjson.Result) (featureset.Field, error) {
	if entry.Type == gjson.String {
		name := entry.String()
		if name == "" {
			return featureset.Field{}, fmt.Errorf("empty column name")
		}
		return featureset.DefaultField(name), nil
	}

	if !entry.IsObject() {
		return featureset.Field{}, fmt.Errorf("column entry must be a name or an object, got %s", entry.Type)
	}

	name := entry.Get("name").String()
	if name == "" {
		return featureset.Field{}, fmt.Errorf("column object missing name")
	}

	field := featureset.DefaultField(name)
	if kind := entry.Get("kind"); kind.Exists() {
		switch kind.String() {
		case "int":
			field.Kind = featureset.KindInt
		case "float":
			field.Kind = featureset.KindFloat
		default:
			return featureset.Field{}, fmt.Errorf("column %s has unknown kind %q", name, kind.String())
		}
	}
	if def := entry.Get("default"); def.Exists() {
		field.Default = def.Float()
	}
	return field, nil
}
