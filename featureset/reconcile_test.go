package featureset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_OutputMatchesSchemaExactly(t *testing.T) {
	schemas := map[string]*Schema{
		"reduced": ReducedSchema(),
		"legacy":  LegacySchema(),
	}

	inputs := []map[string]string{
		nil,
		{},
		{"Age": "52"},
		{"Age": "52", "CA125": "120.5", "bogus_field": "9"},
		{"CA125": "not-a-number", "HE4": ""},
	}

	for name, schema := range schemas {
		for _, raw := range inputs {
			vec := Reconcile(schema, raw)
			require.Equal(t, schema.Len(), vec.Len(), "schema %s", name)
			assert.Equal(t, schema, vec.Schema(), "schema %s", name)
		}
	}
}

func TestReconcile_MergesKnownFields(t *testing.T) {
	vec := Reconcile(ReducedSchema(), map[string]string{
		"Age":       "62",
		"Menopause": "1",
		"CA125":     "312.7",
		"HE4":       " 135.6 ",
	})

	age, ok := vec.Value(FieldAge)
	require.True(t, ok)
	assert.Equal(t, 62.0, age)

	ca125, _ := vec.Value(FieldCA125)
	assert.Equal(t, 312.7, ca125)

	he4, _ := vec.Value(FieldHE4)
	assert.Equal(t, 135.6, he4)

	// Untouched fields keep their baseline.
	cea, _ := vec.Value(FieldCEA)
	assert.Equal(t, 2.5, cea)
}

func TestReconcile_MalformedValueKeepsOnlyThatDefault(t *testing.T) {
	cases := []string{"abc", "12.3.4", "NaN", "+Inf", "--5", ""}

	for _, bad := range cases {
		vec := Reconcile(ReducedSchema(), map[string]string{
			"CA125": bad,
			"HE4":   "99.5",
		})

		ca125, _ := vec.Value(FieldCA125)
		assert.Equal(t, 35.0, ca125, "input %q should fall back to the default", bad)

		he4, _ := vec.Value(FieldHE4)
		assert.Equal(t, 99.5, he4, "well-formed sibling field must survive input %q", bad)
	}
}

func TestReconcile_UnknownFieldsIgnored(t *testing.T) {
	vec := Reconcile(ReducedSchema(), map[string]string{
		"CholesterolTotal": "210",
		"CA125":            "40",
	})

	require.Equal(t, ReducedSchema().Len(), vec.Len())
	_, ok := vec.Value("CholesterolTotal")
	assert.False(t, ok)
}

func TestReconcile_IntegerFieldsTruncate(t *testing.T) {
	vec := Reconcile(ReducedSchema(), map[string]string{"Age": "52.9"})
	age, _ := vec.Value(FieldAge)
	assert.Equal(t, 52.0, age)
}

func TestSchema_RejectsStructuralErrors(t *testing.T) {
	_, err := NewSchema(nil)
	assert.Error(t, err)

	_, err = NewSchema([]Field{{Name: "A"}, {Name: "A"}})
	assert.Error(t, err)

	_, err = NewSchema([]Field{{Name: ""}})
	assert.Error(t, err)
}

func TestBaseline_CoversEveryField(t *testing.T) {
	vec := ReducedSchema().Baseline()
	require.Equal(t, 12, vec.Len())

	age, _ := vec.Value(FieldAge)
	assert.Equal(t, 45.0, age)
	ca125, _ := vec.Value(FieldCA125)
	assert.Equal(t, 35.0, ca125)

	// The legacy panel defaults to zeros outside the canonical table.
	legacy := LegacySchema().Baseline()
	alb, ok := legacy.Value("ALB")
	require.True(t, ok)
	assert.Equal(t, 0.0, alb)
}

func TestSchema_OrderPreserved(t *testing.T) {
	names := ReducedSchema().Names()
	assert.Equal(t, []string{
		"Age", "Menopause", "GGT", "HGB", "AFP", "CA72-4",
		"ALP", "CA19-9", "HE4", "CEA", "CA125", "Ca",
	}, names)
}
