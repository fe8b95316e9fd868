// Package comparator is the single source of truth for "did this test case
// pass". It is pure: no I/O, no side effects.
package comparator

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/codecoffee/judge/internal/domain"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize trims, unifies line endings and collapses whitespace runs so
// output comparison ignores formatting noise.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// EqualNormalized compares two outputs after whitespace normalization
func EqualNormalized(actual, expected string) bool {
	return Normalize(actual) == Normalize(expected)
}

// Validate compares actual against expected output under the declared
// format. Scalar formats compare as trimmed strings or numerically;
// structured formats (array, matrix, tree-as-array, graph-as-edge-list) are
// deep element-wise equal. Unparseable structured or numeric values fall
// back to trimmed string comparison.
func Validate(actual, expected string, format domain.OutputFormat) bool {
	switch format {
	case domain.FormatNumber:
		a, errA := strconv.ParseFloat(strings.TrimSpace(actual), 64)
		e, errE := strconv.ParseFloat(strings.TrimSpace(expected), 64)
		if errA != nil || errE != nil {
			return strings.TrimSpace(actual) == strings.TrimSpace(expected)
		}
		return a == e
	case domain.FormatArray, domain.FormatMatrix, domain.FormatTree, domain.FormatGraph:
		a, errA := parseStructured(actual)
		e, errE := parseStructured(expected)
		if errA != nil || errE != nil {
			return strings.TrimSpace(actual) == strings.TrimSpace(expected)
		}
		return deepEqual(a, e)
	default:
		return strings.TrimSpace(actual) == strings.TrimSpace(expected)
	}
}

// parseStructured accepts JSON ([1,2,3], [[0,1],[1,2]], nulls for absent
// tree nodes) and falls back to space- or comma-separated scalars.
func parseStructured(s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var v interface{}
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v, nil
		}
	}
	if s == "" {
		return []interface{}{}, nil
	}
	var sep string
	if strings.Contains(s, ",") {
		sep = ","
	}
	var parts []string
	if sep == "" {
		parts = strings.Fields(s)
	} else {
		parts = strings.Split(s, sep)
	}
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if n, err := strconv.ParseFloat(p, 64); err == nil {
			out = append(out, n)
		} else {
			out = append(out, p)
		}
	}
	return out, nil
}

// deepEqual compares arrays by length then by position and object leaves
// key-wise; scalar leaves by strict equality. JSON numbers decode to float64
// on both sides, so numeric leaves compare numerically. Objects must never
// reach ==, which panics on uncomparable types.
func deepEqual(a, b interface{}) bool {
	arrA, okA := a.([]interface{})
	arrB, okB := b.([]interface{})
	if okA && okB {
		if len(arrA) != len(arrB) {
			return false
		}
		for i := range arrA {
			if !deepEqual(arrA[i], arrB[i]) {
				return false
			}
		}
		return true
	}
	if okA != okB {
		return false
	}

	objA, okA := a.(map[string]interface{})
	objB, okB := b.(map[string]interface{})
	if okA || okB {
		if okA != okB || len(objA) != len(objB) {
			return false
		}
		for k, v := range objA {
			w, ok := objB[k]
			if !ok || !deepEqual(v, w) {
				return false
			}
		}
		return true
	}

	return a == b
}
