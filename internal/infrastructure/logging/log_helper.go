package logging

import (
	"slices"
)

const (
	categoryKey    = "Category"
	subCategoryKey = "SubCategory"
)

// fieldValue keeps errors readable in both encoders.
func fieldValue(v any) any {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return v
}

// zapFields flattens extra into sugared key/value pairs, category first and
// the rest in key order. extra is not modified.
func zapFields(cat Category, sub SubCategory, extra map[ExtraKey]any) []any {
	params := make([]any, 0, 4+len(extra)*2)
	params = append(params, categoryKey, string(cat), subCategoryKey, string(sub))

	keys := make([]ExtraKey, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		params = append(params, string(k), fieldValue(extra[k]))
	}

	return params
}

func zeroFields(extra map[ExtraKey]any) map[string]any {
	params := make(map[string]any, len(extra))

	for k, v := range extra {
		params[string(k)] = fieldValue(v)
	}

	return params
}
