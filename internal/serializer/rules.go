package serializer

import "github.com/Clark-Hu/catalog-api/internal/schema"

// Messages reported by the movie validation rules.
const (
	MsgRatingOutOfRange = "rating out of range"
	MsgGrossOrder       = "us_gross exceeds worldwide_gross"
)

type fieldRule struct {
	field string
	check func(v any) string
}

type crossRule struct {
	fields []string
	check  func(v Values) string
}

var fieldRules = map[schema.Kind][]fieldRule{
	schema.KindMovie: {
		{field: "rating", check: func(v any) string {
			r := v.(int64)
			if r < 1 || r > 10 {
				return MsgRatingOutOfRange
			}
			return ""
		}},
	},
}

var crossRules = map[schema.Kind][]crossRule{
	schema.KindMovie: {
		{fields: []string{"us_gross", "worldwide_gross"}, check: func(v Values) string {
			if v["us_gross"].(int64) > v["worldwide_gross"].(int64) {
				return MsgGrossOrder
			}
			return ""
		}},
	},
}

// envelopes unwrap submissions that nest entity fields under a named key.
var envelopes = map[schema.Kind]func(map[string]any) (map[string]any, error){
	schema.KindResource: func(in map[string]any) (map[string]any, error) {
		raw, ok := in["resource"]
		if !ok {
			return in, nil
		}
		inner, ok := raw.(map[string]any)
		if !ok {
			return nil, &FieldValidationError{Field: "resource", Message: "expected a mapping of resource fields"}
		}
		return inner, nil
	},
}
