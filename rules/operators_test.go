package rules

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// mustValue builds a TypedValue or fails the test.
func mustValue(t *testing.T, kind Kind, raw any) TypedValue {
	t.Helper()
	v, err := NewTypedValue(kind, raw)
	if err != nil {
		t.Fatalf("NewTypedValue(%v, %v) error = %v, want nil", kind, raw, err)
	}
	return v
}

func TestCompare_Numeric(t *testing.T) {
	tests := []struct {
		name     string
		wrapped  any
		operator string
		literal  any
		want     bool
	}{
		{"int equals float of same value", 10, "equal_to", 10.0, true},
		{"float equals int of same value", 10.0, "equal_to", 10, true},
		{"equal within epsilon", 1.0000001, "equal_to", 1.0, true},
		{"not equal", 10, "not_equal_to", 11, true},
		{"greater than", 11, "greater_than", 10, true},
		{"greater than fails on equal", 10, "greater_than", 10.0, false},
		{"greater than or equal on equal", 10, "greater_than_or_equal_to", 10.0, true},
		{"less than", 9.5, "less_than", 10, true},
		{"less than fails on equal", 10.0, "less_than", 10, false},
		{"less than or equal on equal", 10.0, "less_than_or_equal_to", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(mustValue(t, KindNumeric, tt.wrapped), tt.operator, tt.literal)
			if err != nil {
				t.Fatalf("Compare() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v %s %v) = %v, want %v", tt.wrapped, tt.operator, tt.literal, got, tt.want)
			}
		})
	}
}

func TestCompare_NumericBadLiteral(t *testing.T) {
	_, err := Compare(mustValue(t, KindNumeric, 10), "equal_to", "ten")
	if !errors.Is(err, ErrComparisonValue) {
		t.Fatalf("Compare() error = %v, want ErrComparisonValue", err)
	}
}

func TestCompare_String(t *testing.T) {
	tests := []struct {
		name     string
		wrapped  string
		operator string
		literal  any
		want     bool
	}{
		{"equal_to exact", "foo", "equal_to", "foo", true},
		{"equal_to is case sensitive", "Foo", "equal_to", "foo", false},
		{"equal_to_case_insensitive", "Foo", "equal_to_case_insensitive", "foo", true},
		{"not_equal_to", "foo", "not_equal_to", "bar", true},
		{"starts_with", "foobar", "starts_with", "foo", true},
		{"ends_with", "foobar", "ends_with", "bar", true},
		{"contains", "foobar", "contains", "oba", true},
		{"contains miss", "foobar", "contains", "xyz", false},
		{"matches_regex", "hello world", "matches_regex", `^hello\s`, true},
		{"matches_regex miss", "hello", "matches_regex", `^world`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(mustValue(t, KindString, tt.wrapped), tt.operator, tt.literal)
			if err != nil {
				t.Fatalf("Compare() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%q %s %v) = %v, want %v", tt.wrapped, tt.operator, tt.literal, got, tt.want)
			}
		})
	}
}

func TestCompare_StringInvalidPattern(t *testing.T) {
	_, err := Compare(mustValue(t, KindString, "x"), "matches_regex", "([unclosed")
	if !errors.Is(err, ErrComparisonValue) {
		t.Fatalf("Compare() error = %v, want ErrComparisonValue", err)
	}
}

func TestCompare_NonEmptyIgnoresLiteral(t *testing.T) {
	// No-input operator: the literal is ignored entirely, whatever its shape.
	for _, literal := range []any{nil, 42, "anything", []any{1}} {
		got, err := Compare(mustValue(t, KindString, "  x "), "non_empty", literal)
		if err != nil {
			t.Fatalf("Compare() error = %v, want nil", err)
		}
		if !got {
			t.Errorf("non_empty(%q) with literal %v = false, want true", "  x ", literal)
		}
	}

	got, err := Compare(mustValue(t, KindString, "   "), "non_empty", nil)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}
	if got {
		t.Errorf("non_empty(whitespace) = true, want false")
	}
}

func TestCompare_BooleanIgnoresLiteral(t *testing.T) {
	for _, literal := range []any{nil, false, "false", 0} {
		got, err := Compare(mustValue(t, KindBoolean, true), "is_true", literal)
		if err != nil {
			t.Fatalf("Compare() error = %v, want nil", err)
		}
		if !got {
			t.Errorf("is_true with literal %v = false, want true", literal)
		}
	}

	got, err := Compare(mustValue(t, KindBoolean, false), "is_false", nil)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}
	if !got {
		t.Errorf("is_false(false) = false, want true")
	}
}

func TestCompare_Select(t *testing.T) {
	tests := []struct {
		name     string
		wrapped  any
		operator string
		literal  any
		want     bool
	}{
		{"contains hit", "BRONZE", "contains", []any{"BRONZE", "SILVER"}, true},
		{"contains is case insensitive", "bronze", "contains", []any{"BRONZE"}, true},
		{"contains miss", "GOLD", "contains", []any{"BRONZE", "SILVER"}, false},
		{"contains numeric tolerance", 2, "contains", []any{1.0, 2.0, 3.0}, true},
		{"does_not_contain", "GOLD", "does_not_contain", []any{"BRONZE"}, true},
		{"typed slice literal", "a", "contains", []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(mustValue(t, KindSelect, tt.wrapped), tt.operator, tt.literal)
			if err != nil {
				t.Fatalf("Compare() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v %s %v) = %v, want %v", tt.wrapped, tt.operator, tt.literal, got, tt.want)
			}
		})
	}
}

func TestCompare_SelectNonSequenceLiteral(t *testing.T) {
	_, err := Compare(mustValue(t, KindSelect, "a"), "contains", "a")
	if !errors.Is(err, ErrComparisonValue) {
		t.Fatalf("Compare() error = %v, want ErrComparisonValue", err)
	}
}

func TestCompare_SelectMultiple(t *testing.T) {
	wrapped := []any{"a", "b", "c"}
	tests := []struct {
		name     string
		operator string
		literal  any
		want     bool
	}{
		{"contains_all hit", "contains_all", []any{"a", "c"}, true},
		{"contains_all miss", "contains_all", []any{"a", "z"}, false},
		{"is_contained_by hit", "is_contained_by", []any{"a", "b", "c", "d"}, true},
		{"is_contained_by miss", "is_contained_by", []any{"a", "b"}, false},
		{"shares_at_least_one hit", "shares_at_least_one_element_with", []any{"c", "z"}, true},
		{"shares_at_least_one miss", "shares_at_least_one_element_with", []any{"x", "z"}, false},
		{"shares_exactly_one hit", "shares_exactly_one_element_with", []any{"c", "z"}, true},
		{"shares_exactly_one too many", "shares_exactly_one_element_with", []any{"b", "c"}, false},
		{"shares_exactly_one none", "shares_exactly_one_element_with", []any{"z"}, false},
		{"shares_no_elements hit", "shares_no_elements_with", []any{"x", "z"}, true},
		{"shares_no_elements miss", "shares_no_elements_with", []any{"a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(mustValue(t, KindSelectMultiple, wrapped), tt.operator, tt.literal)
			if err != nil {
				t.Fatalf("Compare() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v %s %v) = %v, want %v", wrapped, tt.operator, tt.literal, got, tt.want)
			}
		})
	}
}

func TestCompare_SharedCountDeduplicates(t *testing.T) {
	// Duplicates in the wrapped sequence count as one shared element.
	wrapped := []any{"a", "a", "a"}
	got, err := Compare(mustValue(t, KindSelectMultiple, wrapped), "shares_exactly_one_element_with", []any{"a", "z"})
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}
	if !got {
		t.Errorf("shares_exactly_one_element_with duplicates = false, want true")
	}
}

func TestCompare_Date(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		wrapped  any
		operator string
		literal  any
		want     bool
	}{
		{"equal across representations", day, "equal_to", "2024-06-15", true},
		{"not equal", day, "not_equal_to", "2024-06-16", true},
		{"greater than", day, "greater_than", "2024-06-14", true},
		{"greater than or equal on equal", "2024-06-15", "greater_than_or_equal_to", day, true},
		{"less than", day, "less_than", "2024-06-16", true},
		{"less than or equal on equal", day, "less_than_or_equal_to", day.Unix(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(mustValue(t, KindDate, tt.wrapped), tt.operator, tt.literal)
			if err != nil {
				t.Fatalf("Compare() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v %s %v) = %v, want %v", tt.wrapped, tt.operator, tt.literal, got, tt.want)
			}
		})
	}
}

func TestCompare_UndefinedOperator(t *testing.T) {
	_, err := Compare(mustValue(t, KindString, "x"), "wrong_operator", "y")
	if !errors.Is(err, ErrUndefinedOperator) {
		t.Fatalf("Compare() error = %v, want ErrUndefinedOperator", err)
	}
	if !strings.Contains(err.Error(), "wrong_operator") || !strings.Contains(err.Error(), "string") {
		t.Errorf("error %q should name the operator and the kind", err)
	}

	// Numeric operators are not available on booleans.
	_, err = Compare(mustValue(t, KindBoolean, true), "greater_than", 1)
	if !errors.Is(err, ErrUndefinedOperator) {
		t.Fatalf("Compare() error = %v, want ErrUndefinedOperator", err)
	}
}
