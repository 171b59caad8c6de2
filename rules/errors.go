package rules

import "errors"

// Sentinel errors for rule evaluation. All of them indicate caller
// configuration problems (a malformed rule or an incompatible registry),
// never transient conditions; the engine does not retry or recover.
// Call sites wrap these with %w plus the offending name so the
// misconfiguration can be pinpointed from the message alone.
var (
	// ErrUndefinedVariable indicates a condition references a variable name
	// absent from the variable registry.
	ErrUndefinedVariable = errors.New("variable is not defined")

	// ErrUndefinedAction indicates a rule action references a name absent
	// from the action registry.
	ErrUndefinedAction = errors.New("action is not defined")

	// ErrUndefinedOperator indicates an operator name not in the resolved
	// value kind's operator set.
	ErrUndefinedOperator = errors.New("operator does not exist for type")

	// ErrInvalidParams indicates a condition or action params field that is
	// not a mapping.
	ErrInvalidParams = errors.New("params must be a mapping")

	// ErrMissingParam indicates a declared required parameter was not
	// provided.
	ErrMissingParam = errors.New("expected param was not provided")

	// ErrMalformedCondition indicates a condition node that is neither a
	// valid all/any combinator nor a complete leaf condition.
	ErrMalformedCondition = errors.New("malformed condition tree")

	// ErrInvalidValue indicates a variable handler returned a raw value that
	// cannot be represented as the variable's declared kind.
	ErrInvalidValue = errors.New("value is not valid for kind")

	// ErrComparisonValue indicates a comparison literal whose shape does not
	// fit the operator (e.g. a string literal for a numeric comparison).
	ErrComparisonValue = errors.New("comparison value is not valid for operator")
)
