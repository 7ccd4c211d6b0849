package onnx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncorisk/ovassess/featureset"
)

func TestParseColumns_BareNameArray(t *testing.T) {
	raw := []byte(`["Age", "Menopause", "CA125", "HE4"]`)

	schema, err := ParseColumns(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Menopause", "CA125", "HE4"}, schema.Names())

	// Bare names inherit the canonical annotations.
	age, _, ok := schema.Lookup(featureset.FieldAge)
	require.True(t, ok)
	assert.Equal(t, featureset.KindInt, age.Kind)
	assert.Equal(t, 45.0, age.Default)

	ca125, _, ok := schema.Lookup(featureset.FieldCA125)
	require.True(t, ok)
	assert.Equal(t, featureset.KindFloat, ca125.Kind)
	assert.Equal(t, 35.0, ca125.Default)
}

func TestParseColumns_AnnotatedObject(t *testing.T) {
	raw := []byte(`{"columns": [
		{"name": "Age", "kind": "int", "default": 50},
		{"name": "CA125"},
		{"name": "NOVEL_MARKER", "kind": "float", "default": 1.5}
	]}`)

	schema, err := ParseColumns(raw)
	require.NoError(t, err)
	require.Equal(t, 3, schema.Len())

	age, _, _ := schema.Lookup("Age")
	assert.Equal(t, 50.0, age.Default)

	// Unannotated known field keeps its canonical baseline.
	ca125, _, _ := schema.Lookup("CA125")
	assert.Equal(t, 35.0, ca125.Default)

	// Fields outside the canonical table are accepted with their own
	// annotations.
	novel, _, ok := schema.Lookup("NOVEL_MARKER")
	require.True(t, ok)
	assert.Equal(t, featureset.KindFloat, novel.Kind)
	assert.Equal(t, 1.5, novel.Default)
}

func TestParseColumns_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty array":       `[]`,
		"empty object list": `{"columns": []}`,
		"scalar":            `42`,
		"empty name":        `[""]`,
		"missing name":      `{"columns": [{"kind": "int"}]}`,
		"bad kind":          `{"columns": [{"name": "Age", "kind": "decimal"}]}`,
		"duplicate":         `["Age", "Age"]`,
		"nested array":      `[["Age"]]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseColumns([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadSchema_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model_columns.json")
	require.NoError(t, os.WriteFile(path, []byte(`["Age", "CA125"]`), 0o644))

	schema, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, 2, schema.Len())

	_, err = LoadSchema(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestDecodeOutputs(t *testing.T) {
	pred, err := decodeOutputs([]int64{1}, []float32{0.3, 0.7})
	require.NoError(t, err)
	assert.Equal(t, 1, pred.Label)
	assert.InDelta(t, 0.7, pred.Probability, 1e-6)

	_, err = decodeOutputs(nil, []float32{0.3, 0.7})
	assert.Error(t, err)

	_, err = decodeOutputs([]int64{0}, []float32{1})
	assert.Error(t, err)

	_, err = decodeOutputs([]int64{5}, []float32{0.3, 0.7})
	assert.Error(t, err)

	_, err = decodeOutputs([]int64{1}, []float32{0.3, 1.4})
	assert.Error(t, err)
}
