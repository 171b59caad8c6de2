package rules

import (
	"fmt"
	"reflect"
	"time"
)

/*
 * Typed value model.
 *
 * A variable declares a Kind; the raw value its handler returns is coerced
 * into that kind's canonical representation at resolution time and wrapped
 * in an immutable TypedValue. Each kind exposes a fixed operator set
 * (operators.go); which operators are legal for a variable is therefore
 * decided by its declared kind, not by the runtime shape of the value.
 *
 * Canonical representations:
 *   - numeric:         float64 (ints widened, strings rejected)
 *   - string:          string
 *   - boolean:         bool (strict, no truthiness coercion)
 *   - select:          single scalar, kept as-is
 *   - select_multiple: []any (any slice or array widened)
 *   - date:            time.Time (accepts time.Time, RFC 3339 or
 *                      YYYY-MM-DD strings, or epoch seconds)
 *
 * Coercion failure is a configuration error (ErrInvalidValue), not a false
 * comparison: a boolean variable whose handler returns "yes" is a broken
 * provider, and hiding that behind a false result would mask the bug.
 */

// Kind is the closed set of value categories a variable may declare.
type Kind int

const (
	KindInvalid Kind = iota
	KindNumeric
	KindString
	KindBoolean
	KindSelect
	KindSelectMultiple
	KindDate
)

// kindNames maps kinds to their wire names, which double as the keys of the
// variable_type_operators section of exported rule data.
var kindNames = map[Kind]string{
	KindNumeric:        "numeric",
	KindString:         "string",
	KindBoolean:        "boolean",
	KindSelect:         "select",
	KindSelectMultiple: "select_multiple",
	KindDate:           "date",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a wire name back into a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown value kind %q", name)
}

// TypedValue wraps one coerced raw value together with its declared kind.
// Immutable once constructed; construct via NewTypedValue.
type TypedValue struct {
	kind    Kind
	num     float64
	str     string
	boolean bool
	scalar  any
	items   []any
	date    time.Time
}

// NewTypedValue coerces raw into the canonical representation for kind.
// Returns ErrInvalidValue when the raw value cannot represent the kind.
func NewTypedValue(kind Kind, raw any) (TypedValue, error) {
	v := TypedValue{kind: kind}
	switch kind {
	case KindNumeric:
		f, ok := toFloat64(raw)
		if !ok {
			return TypedValue{}, coercionError(kind, raw)
		}
		v.num = f
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return TypedValue{}, coercionError(kind, raw)
		}
		v.str = s
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			// No truthiness: "true" and 1 are not booleans here.
			return TypedValue{}, coercionError(kind, raw)
		}
		v.boolean = b
	case KindSelect:
		if raw == nil {
			return TypedValue{}, coercionError(kind, raw)
		}
		v.scalar = raw
	case KindSelectMultiple:
		items, ok := toAnySlice(raw)
		if !ok {
			return TypedValue{}, coercionError(kind, raw)
		}
		v.items = items
	case KindDate:
		t, ok := toTime(raw)
		if !ok {
			return TypedValue{}, coercionError(kind, raw)
		}
		v.date = t
	default:
		return TypedValue{}, fmt.Errorf("%w: unknown kind %v", ErrInvalidValue, kind)
	}
	return v, nil
}

// Kind returns the declared kind of the wrapped value.
func (v TypedValue) Kind() Kind {
	return v.kind
}

func coercionError(kind Kind, raw any) error {
	return fmt.Errorf("%w: %v (%T) is not valid for %s", ErrInvalidValue, raw, raw, kind)
}

// toFloat64 widens any Go numeric type to float64.
// Strings are deliberately excluded: a numeric variable returning "42" is a
// provider bug, not a number.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toAnySlice widens any slice or array into []any. JSON-decoded values are
// already []any and take the fast path; reflection covers typed slices such
// as []string from hand-written providers.
func toAnySlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// Accepted string layouts for date values, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// toTime converts a raw date value to time.Time. Accepts time.Time, RFC 3339
// or YYYY-MM-DD strings, and numeric epoch seconds.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		if f, ok := toFloat64(v); ok {
			sec := int64(f)
			nsec := int64((f - float64(sec)) * 1e9)
			return time.Unix(sec, nsec).UTC(), true
		}
		return time.Time{}, false
	}
}
