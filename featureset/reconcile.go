package featureset

import (
	"math"
	"strconv"
	"strings"
)

// Reconcile merges raw, untrusted form values into the schema's baseline and
// returns a vector covering exactly the schema's fields in schema order.
//
// A raw field that names an unknown column is ignored. A raw field that is
// empty, or that fails numeric coercion, keeps the field's baseline default.
// Reconcile never fails: malformed individual values are corrected silently.
func Reconcile(s *Schema, raw map[string]string) Vector {
	vec := s.Baseline()
	for name, rawValue := range raw {
		f, i, ok := s.Lookup(name)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(rawValue)
		if trimmed == "" {
			continue
		}
		value, err := coerce(trimmed, f.Kind)
		if err != nil {
			continue
		}
		vec.values[i] = value
	}
	return vec
}

// coerce parses a raw string into the field's numeric kind. Integer fields
// accept fractional input and truncate it, matching how the classifier was
// trained on whole-valued columns.
func coerce(s string, k Kind) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	if k == KindInt {
		v = math.Trunc(v)
	}
	return v, nil
}
