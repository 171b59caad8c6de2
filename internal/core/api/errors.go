package api

import (
	"errors"
	"net/http"

	"github.com/zipari/business-rules/internal/types"
	"github.com/zipari/business-rules/rules"
)

// badRequestErrors are caller mistakes: malformed rules, unknown
// names, or invalid facts. Everything else maps to 500.
var badRequestErrors = []error{
	rules.ErrUndefinedVariable,
	rules.ErrUndefinedAction,
	rules.ErrUndefinedOperator,
	rules.ErrInvalidParams,
	rules.ErrMissingParam,
	rules.ErrMalformedCondition,
	rules.ErrInvalidValue,
	rules.ErrComparisonValue,
	types.ErrTooManyRules,
	types.ErrTooManyFacts,
	types.ErrUnknownKind,
	types.ErrFactPathNotFound,
	types.ErrInvalidFact,
}

// statusForError maps evaluation errors to HTTP status codes.
func statusForError(err error) int {
	if errors.Is(err, types.ErrPayloadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
