package dictation

import (
	"math"
	"strconv"
	"strings"

	"stillhouse/domain"
)

// Merge overlays the non-null values of parsed onto a copy of current. Only
// schema fields are taken, converted to the field's type; values that cannot
// be converted are ignored. The names of overwritten fields are returned in
// schema order.
func Merge(current, parsed map[string]any, fields []domain.DictationField) (map[string]any, []string) {
	form := copyForm(current)
	updated := []string{}

	for _, f := range fields {
		raw, ok := parsed[f.Name]
		if !ok || raw == nil {
			continue
		}
		v, ok := coerce(raw, f.Type)
		if !ok {
			continue
		}
		form[f.Name] = v
		updated = append(updated, f.Name)
	}
	return form, updated
}

func coerce(v any, fieldType string) (any, bool) {
	switch fieldType {
	case domain.FieldTypeNumber:
		switch t := v.(type) {
		case float64:
			return t, finite(t)
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			return n, err == nil && finite(n)
		}
	case domain.FieldTypeBoolean:
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "on", "yes":
				return true, true
			case "false", "off", "no":
				return false, true
			}
		}
	case domain.FieldTypeString:
		switch t := v.(type) {
		case string:
			return t, true
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(t), true
		}
	}
	return nil, false
}

// finite rejects NaN and the infinities, which ParseFloat accepts but JSON
// cannot carry.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
