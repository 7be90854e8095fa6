package matching

import (
	"fmt"
	"reflect"

	"github.com/ohler55/ojg/jp"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// JSONPathResult contains the results of JSONPath matching.
type JSONPathResult struct {
	// Score is ScoreJSONPathCondition per matched condition, 0 if any failed.
	Score int
	// Matched holds the value each expression selected, keyed by expression.
	Matched map[string]any
}

// MatchJSONPath evaluates JSONPath conditions against the decoded JSON body.
// A request without a JSON body never matches.
//
// An expected value of the form {"exists": true|false} checks presence only.
func MatchJSONPath(conditions map[string]any, r *mock.Request) JSONPathResult {
	if len(conditions) == 0 || !r.IsJSON {
		return JSONPathResult{}
	}

	result := JSONPathResult{Matched: make(map[string]any, len(conditions))}
	for path, expected := range conditions {
		matched, value := matchSingleJSONPath(path, expected, r.JSON)
		if !matched {
			return JSONPathResult{}
		}
		result.Score += ScoreJSONPathCondition
		result.Matched[path] = value
	}
	return result
}

func matchSingleJSONPath(path string, expected, data any) (bool, any) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false, nil
	}
	results := expr.Get(data)

	if exists, ok := existenceCheck(expected); ok {
		if exists {
			if len(results) == 0 {
				return false, nil
			}
			return true, results[0]
		}
		return len(results) == 0, nil
	}

	// Wildcard paths can select several values; any of them may match.
	for _, v := range results {
		if valuesEqual(v, expected) {
			return true, v
		}
	}
	return false, nil
}

// existenceCheck recognises {"exists": bool} and returns the flag.
func existenceCheck(expected any) (exists, ok bool) {
	m, isMap := expected.(map[string]any)
	if !isMap || len(m) != 1 {
		return false, false
	}
	b, isBool := m["exists"].(bool)
	return b, isBool
}

// valuesEqual compares a decoded JSON value with an expected value, treating
// all numeric types as equal when they hold the same number. Expected values
// from YAML fixtures arrive as int, JSON numbers as float64.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	a, aIsNum := toFloat64(actual)
	e, eIsNum := toFloat64(expected)
	if aIsNum && eIsNum {
		return a == e
	}
	normalized, err := mock.NormalizeJSON(expected)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(actual, normalized)
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

// ValidateJSONPathExpression reports whether path parses as JSONPath.
func ValidateJSONPathExpression(path string) error {
	if _, err := jp.ParseString(path); err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}
