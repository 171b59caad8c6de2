package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldType identifies the input widget a UI should render for a declared
// parameter or an operator's comparison value. Values match the wire names
// used in exported rule data.
type FieldType string

const (
	FieldNumeric        FieldType = "numeric"
	FieldText           FieldType = "text"
	FieldBoolean        FieldType = "boolean"
	FieldSelect         FieldType = "select"
	FieldSelectMultiple FieldType = "select_multiple"
	FieldDate           FieldType = "date"

	// FieldNoInput marks operators that take no comparison value at all
	// (e.g. is_true). Not a valid parameter field type.
	FieldNoInput FieldType = "none"
)

// validFieldType reports whether ft is usable as a declared parameter type.
func validFieldType(ft FieldType) bool {
	switch ft {
	case FieldNumeric, FieldText, FieldBoolean, FieldSelect, FieldSelectMultiple, FieldDate:
		return true
	default:
		return false
	}
}

// prettyLabel derives a human-readable label from a snake_case identifier:
// "expiration_days" becomes "Expiration Days". Used as the default label for
// variables, actions, operators, and parameters when none is given.
func prettyLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// titleWord upper-cases the first rune and lower-cases the rest.
func titleWord(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
