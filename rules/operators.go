package rules

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
)

/*
 * Operator comparison dispatch.
 *
 * Each kind carries a fixed, ordered table of named operators. Dispatch
 * matches the value's kind tag and then looks the operator up by name in
 * that kind's table; there is no open-ended dynamic lookup. The tables are
 * built once at package init and never mutated, so concurrent evaluations
 * share them safely.
 *
 * Operators are either no-input (FieldNoInput, operate only on the wrapped
 * value and ignore the comparison literal entirely) or one-input (the
 * literal is coerced to the shape the operator needs; a literal of the
 * wrong shape is ErrComparisonValue, not a false result).
 *
 * Numeric comparison uses a fixed epsilon so mixed integer/float
 * representations of the same quantity never produce precision-induced
 * false negatives: 10 and 10.0 are equal_to.
 */

// numericEpsilon is the tolerance for numeric equality and strict ordering.
const numericEpsilon = 1e-6

// operatorFunc evaluates one operator against a wrapped value and the
// condition's comparison literal. No-input operators ignore the literal.
type operatorFunc func(v TypedValue, literal any) (bool, error)

// operatorSpec describes one named operator of a kind.
type operatorSpec struct {
	name      string
	inputType FieldType
	fn        operatorFunc
}

// operatorsByKind is the per-kind operator table, in export order.
var operatorsByKind = map[Kind][]operatorSpec{
	KindNumeric: {
		{"equal_to", FieldNumeric, numericOp(func(a, b float64) bool { return numericEqual(a, b) })},
		{"not_equal_to", FieldNumeric, numericOp(func(a, b float64) bool { return !numericEqual(a, b) })},
		{"greater_than", FieldNumeric, numericOp(func(a, b float64) bool { return a > b+numericEpsilon })},
		{"greater_than_or_equal_to", FieldNumeric, numericOp(func(a, b float64) bool { return a > b+numericEpsilon || numericEqual(a, b) })},
		{"less_than", FieldNumeric, numericOp(func(a, b float64) bool { return a < b-numericEpsilon })},
		{"less_than_or_equal_to", FieldNumeric, numericOp(func(a, b float64) bool { return a < b-numericEpsilon || numericEqual(a, b) })},
	},
	KindString: {
		{"equal_to", FieldText, stringOp(func(a, b string) bool { return a == b })},
		{"equal_to_case_insensitive", FieldText, stringOp(strings.EqualFold)},
		{"not_equal_to", FieldText, stringOp(func(a, b string) bool { return a != b })},
		{"starts_with", FieldText, stringOp(strings.HasPrefix)},
		{"ends_with", FieldText, stringOp(strings.HasSuffix)},
		{"contains", FieldText, stringOp(strings.Contains)},
		{"matches_regex", FieldText, matchesRegex},
		{"non_empty", FieldNoInput, func(v TypedValue, _ any) (bool, error) {
			return strings.TrimSpace(v.str) != "", nil
		}},
	},
	KindBoolean: {
		{"is_true", FieldNoInput, func(v TypedValue, _ any) (bool, error) { return v.boolean, nil }},
		{"is_false", FieldNoInput, func(v TypedValue, _ any) (bool, error) { return !v.boolean, nil }},
	},
	KindSelect: {
		{"contains", FieldSelect, selectContains},
		{"does_not_contain", FieldSelect, func(v TypedValue, literal any) (bool, error) {
			contained, err := selectContains(v, literal)
			return !contained, err
		}},
	},
	KindSelectMultiple: {
		{"contains_all", FieldSelectMultiple, multiOp(containsAll)},
		{"is_contained_by", FieldSelectMultiple, multiOp(func(have, want []any) bool { return containsAll(want, have) })},
		{"shares_at_least_one_element_with", FieldSelectMultiple, multiOp(func(have, want []any) bool { return sharedCount(have, want) >= 1 })},
		{"shares_exactly_one_element_with", FieldSelectMultiple, multiOp(func(have, want []any) bool { return sharedCount(have, want) == 1 })},
		{"shares_no_elements_with", FieldSelectMultiple, multiOp(func(have, want []any) bool { return sharedCount(have, want) == 0 })},
	},
	KindDate: {
		{"equal_to", FieldDate, dateOp(func(cmp int) bool { return cmp == 0 })},
		{"not_equal_to", FieldDate, dateOp(func(cmp int) bool { return cmp != 0 })},
		{"greater_than", FieldDate, dateOp(func(cmp int) bool { return cmp > 0 })},
		{"greater_than_or_equal_to", FieldDate, dateOp(func(cmp int) bool { return cmp >= 0 })},
		{"less_than", FieldDate, dateOp(func(cmp int) bool { return cmp < 0 })},
		{"less_than_or_equal_to", FieldDate, dateOp(func(cmp int) bool { return cmp <= 0 })},
	},
}

// Compare resolves operatorName in the value's kind table and invokes it
// with the comparison literal. An unknown operator for the kind is
// ErrUndefinedOperator; it carries both the name and the kind.
func Compare(v TypedValue, operatorName string, literal any) (bool, error) {
	for _, op := range operatorsByKind[v.kind] {
		if op.name == operatorName {
			return op.fn(v, literal)
		}
	}
	return false, fmt.Errorf("%w: %q does not exist for type %s", ErrUndefinedOperator, operatorName, v.kind)
}

func numericEqual(a, b float64) bool {
	return math.Abs(a-b) <= numericEpsilon
}

// numericOp adapts a float predicate into an operatorFunc, coercing the
// comparison literal to float64 first.
func numericOp(pred func(a, b float64) bool) operatorFunc {
	return func(v TypedValue, literal any) (bool, error) {
		f, ok := toFloat64(literal)
		if !ok {
			return false, literalError(literal, "a number")
		}
		return pred(v.num, f), nil
	}
}

// stringOp adapts a string predicate into an operatorFunc.
func stringOp(pred func(a, b string) bool) operatorFunc {
	return func(v TypedValue, literal any) (bool, error) {
		s, ok := literal.(string)
		if !ok {
			return false, literalError(literal, "a string")
		}
		return pred(v.str, s), nil
	}
}

// matchesRegex treats the literal as a pattern and the wrapped string as the
// subject. An uncompilable pattern is a configuration error.
func matchesRegex(v TypedValue, literal any) (bool, error) {
	pattern, ok := literal.(string)
	if !ok {
		return false, literalError(literal, "a regex pattern string")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("%w: invalid pattern %q: %v", ErrComparisonValue, pattern, err)
	}
	return re.MatchString(v.str), nil
}

// selectContains reports whether the wrapped single value is an element of
// the literal sequence.
func selectContains(v TypedValue, literal any) (bool, error) {
	options, ok := toAnySlice(literal)
	if !ok {
		return false, literalError(literal, "a sequence")
	}
	return containsElement(options, v.scalar), nil
}

// multiOp adapts a set predicate over (wrapped, literal) element slices,
// coercing the literal to a sequence first.
func multiOp(pred func(have, want []any) bool) operatorFunc {
	return func(v TypedValue, literal any) (bool, error) {
		want, ok := toAnySlice(literal)
		if !ok {
			return false, literalError(literal, "a sequence")
		}
		return pred(v.items, want), nil
	}
}

// dateOp adapts a predicate over the three-way comparison of the wrapped
// date and the literal date (-1/0/1 as with time ordering).
func dateOp(pred func(cmp int) bool) operatorFunc {
	return func(v TypedValue, literal any) (bool, error) {
		t, ok := toTime(literal)
		if !ok {
			return false, literalError(literal, "a date")
		}
		return pred(v.date.Compare(t)), nil
	}
}

func literalError(literal any, want string) error {
	return fmt.Errorf("%w: %v (%T) is not %s", ErrComparisonValue, literal, literal, want)
}

// looseEqual is the element equality used for select membership: numbers
// compare with the numeric epsilon, strings case-insensitively, everything
// else by deep equality.
func looseEqual(a, b any) bool {
	if fa, aok := toFloat64(a); aok {
		if fb, bok := toFloat64(b); bok {
			return numericEqual(fa, fb)
		}
		return false
	}
	if sa, aok := a.(string); aok {
		if sb, bok := b.(string); bok {
			return strings.EqualFold(sa, sb)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func containsElement(items []any, elem any) bool {
	for _, candidate := range items {
		if looseEqual(candidate, elem) {
			return true
		}
	}
	return false
}

// containsAll reports whether every element of want appears in have.
func containsAll(have, want []any) bool {
	for _, elem := range want {
		if !containsElement(have, elem) {
			return false
		}
	}
	return true
}

// sharedCount counts the distinct elements of have that also appear in
// want. Duplicates within have are counted once so that
// shares_exactly_one_element_with means one shared element, not one match.
func sharedCount(have, want []any) int {
	shared := 0
	for i, elem := range have {
		if containsElement(have[:i], elem) {
			continue
		}
		if containsElement(want, elem) {
			shared++
		}
	}
	return shared
}
