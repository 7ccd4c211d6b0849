package featureset

// Canonical field names shared between the schema definitions, the advice
// pipeline and the delivery layer.
const (
	FieldAge       = "Age"
	FieldMenopause = "Menopause"
	FieldGGT       = "GGT"
	FieldHGB       = "HGB"
	FieldAFP       = "AFP"
	FieldCA724     = "CA72-4"
	FieldALP       = "ALP"
	FieldCA199     = "CA19-9"
	FieldHE4       = "HE4"
	FieldCEA       = "CEA"
	FieldCA125     = "CA125"
	FieldCalcium   = "Ca"
)

// canonicalDefaults maps every field name seen across the historical schema
// variants to its baseline value and kind. Fields absent from this table are
// treated as zero-valued floats.
var canonicalDefaults = map[string]Field{
	FieldAge:       {Name: FieldAge, Kind: KindInt, Default: 45},
	FieldMenopause: {Name: FieldMenopause, Kind: KindInt, Default: 0},
	FieldGGT:       {Name: FieldGGT, Kind: KindFloat, Default: 25.0},
	FieldHGB:       {Name: FieldHGB, Kind: KindFloat, Default: 14.0},
	FieldAFP:       {Name: FieldAFP, Kind: KindFloat, Default: 2.5},
	FieldCA724:     {Name: FieldCA724, Kind: KindFloat, Default: 2.0},
	FieldALP:       {Name: FieldALP, Kind: KindFloat, Default: 70.0},
	FieldCA199:     {Name: FieldCA199, Kind: KindFloat, Default: 15.0},
	FieldHE4:       {Name: FieldHE4, Kind: KindFloat, Default: 40.0},
	FieldCEA:       {Name: FieldCEA, Kind: KindFloat, Default: 2.5},
	FieldCA125:     {Name: FieldCA125, Kind: KindFloat, Default: 35.0},
	FieldCalcium:   {Name: FieldCalcium, Kind: KindFloat, Default: 9.5},
	"SUBJECT_ID":   {Name: "SUBJECT_ID", Kind: KindInt},
	"TYPE":         {Name: "TYPE", Kind: KindInt},
	"PLT":          {Name: "PLT", Kind: KindInt},
}

// DefaultField returns the canonical field definition for a column name. An
// unknown name yields a zero-valued float field, so an artifact declaring a
// column this package has never seen still gets a complete baseline.
func DefaultField(name string) Field {
	if f, ok := canonicalDefaults[name]; ok {
		return f
	}
	return Field{Name: name, Kind: KindFloat}
}

// reducedFieldNames is the 12-field schema the current classifier is trained
// on, in training column order.
var reducedFieldNames = []string{
	FieldAge, FieldMenopause, FieldGGT, FieldHGB, FieldAFP, FieldCA724,
	FieldALP, FieldCA199, FieldHE4, FieldCEA, FieldCA125, FieldCalcium,
}

// legacyFieldNames is the full-panel schema of the earlier model generation,
// which carried the blood-count and electrolyte panels alongside the tumor
// markers.
var legacyFieldNames = []string{
	"SUBJECT_ID", "AFP", "AG", "Age", "ALB", "ALP", "ALT", "AST",
	"BASO#", "BASO%", "BUN", "Ca", "CA125", "CA19-9", "CA72-4", "CEA",
	"CL", "CO2CP", "CREA", "TYPE", "DBIL", "EO#", "EO%", "GGT", "GLO",
	"GLU.", "HCT", "HE4", "HGB", "IBIL", "K", "LYM#", "LYM%", "MCH",
	"MCV", "Menopause", "Mg", "MONO#", "MONO%", "MPV", "Na", "NEU",
	"PCT", "PDW", "PHOS", "PLT", "RBC", "RDW", "TBIL", "TP", "UA",
}

// SchemaFromNames builds a schema from an ordered column-name list, filling
// kinds and baselines from the canonical defaults table.
func SchemaFromNames(names []string) (*Schema, error) {
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = DefaultField(name)
	}
	return NewSchema(fields)
}

func mustSchemaFromNames(names []string) *Schema {
	s, err := SchemaFromNames(names)
	if err != nil {
		panic(err)
	}
	return s
}

var (
	reducedSchema = mustSchemaFromNames(reducedFieldNames)
	legacySchema  = mustSchemaFromNames(legacyFieldNames)
)

// ReducedSchema returns the 12-field biomarker schema.
func ReducedSchema() *Schema {
	return reducedSchema
}

// LegacySchema returns the 48-field schema of the earlier model generation.
func LegacySchema() *Schema {
	return legacySchema
}
