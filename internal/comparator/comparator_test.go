package comparator

import (
	"testing"

	"github.com/codecoffee/judge/internal/domain"
)

func TestValidateScalars(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		actual   string
		expected string
		format   domain.OutputFormat
		want     bool
	}{
		{"string trim", "  hello \n", "hello", domain.FormatString, true},
		{"string mismatch", "hello", "world", domain.FormatString, false},
		{"default is string", "42", "42", "", true},
		{"number equal", "3.0", "3", domain.FormatNumber, true},
		{"number whitespace", " 42 \n", "42", domain.FormatNumber, true},
		{"number mismatch", "41", "42", domain.FormatNumber, false},
		{"number unparseable falls back", "abc", "abc", domain.FormatNumber, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.actual, tc.expected, tc.format); got != tc.want {
				t.Errorf("Validate(%q, %q, %q) = %v, want %v", tc.actual, tc.expected, tc.format, got, tc.want)
			}
		})
	}
}

func TestValidateStructured(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		actual   string
		expected string
		format   domain.OutputFormat
		want     bool
	}{
		{"array json", "[0,1]", "[0, 1]", domain.FormatArray, true},
		{"array space separated", "0 1", "[0,1]", domain.FormatArray, true},
		{"array comma separated", "0, 1", "[0,1]", domain.FormatArray, true},
		{"array length mismatch", "[0,1]", "[0,1,2]", domain.FormatArray, false},
		{"array order matters", "[1,0]", "[0,1]", domain.FormatArray, false},
		{"matrix", "[[1,2],[3,4]]", "[[1,2],[3,4]]", domain.FormatMatrix, true},
		{"matrix element mismatch", "[[1,2],[3,5]]", "[[1,2],[3,4]]", domain.FormatMatrix, false},
		{"tree with nulls", "[12,9,34,null,3]", "[12,9,34,null,3]", domain.FormatTree, true},
		{"tree null vs value", "[1,null]", "[1,2]", domain.FormatTree, false},
		{"graph edge list", "[[0,1],[1,2],[2,0]]", "[[0,1],[1,2],[2,0]]", domain.FormatGraph, true},
		{"nesting depth mismatch", "[[1]]", "[1]", domain.FormatArray, false},
		{"empty arrays", "[]", "[]", domain.FormatArray, true},
		{"object leaves equal", `[{"a":1}]`, `[{"a": 1}]`, domain.FormatArray, true},
		{"object leaves key order irrelevant", `[{"a":1,"b":2}]`, `[{"b":2,"a":1}]`, domain.FormatArray, true},
		{"object leaves value mismatch", `[{"a":1}]`, `[{"a":2}]`, domain.FormatArray, false},
		{"object leaves key mismatch", `[{"a":1}]`, `[{"b":1}]`, domain.FormatArray, false},
		{"object vs scalar leaf", `[{"a":1}]`, `[1]`, domain.FormatArray, false},
		{"nested object leaves", `[{"a":[1,{"b":2}]}]`, `[{"a":[1,{"b":2}]}]`, domain.FormatGraph, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.actual, tc.expected, tc.format); got != tc.want {
				t.Errorf("Validate(%q, %q, %q) = %v, want %v", tc.actual, tc.expected, tc.format, got, tc.want)
			}
		})
	}
}

// Validate(x, x, f) must hold for every supported format and well-formed x.
func TestValidateReflexive(t *testing.T) {
	t.Parallel()
	values := map[domain.OutputFormat][]string{
		domain.FormatString: {"hello", "a b c", ""},
		domain.FormatNumber: {"0", "-17", "3.14"},
		domain.FormatArray:  {"[1,2,3]", "[]", `["a","b"]`, `[{"a":1}]`, `[{"a":1,"b":[2,3]}]`},
		domain.FormatMatrix: {"[[1,2],[3,4]]", "[[]]"},
		domain.FormatTree:   {"[12,9,34,null,3,0,140,20]"},
		domain.FormatGraph:  {"[[0,1],[1,2]]", `[{"from":0,"to":1}]`},
	}
	for format, xs := range values {
		for _, x := range xs {
			if !Validate(x, x, format) {
				t.Errorf("Validate(%q, %q, %q) = false, want true", x, x, format)
			}
		}
	}
}

func TestEqualNormalized(t *testing.T) {
	t.Parallel()
	if !EqualNormalized("a\r\nb", "a\nb") {
		t.Error("line ending normalization failed")
	}
	if !EqualNormalized("  1   2\n\n3  ", "1 2 3") {
		t.Error("whitespace collapse failed")
	}
	if EqualNormalized("1 2", "1 2 3") {
		t.Error("distinct outputs compared equal")
	}
}
