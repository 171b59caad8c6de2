package types

import "errors"

// Sentinel errors for evaluation requests.
var (
	// ErrPayloadTooLarge indicates the request body exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")

	// ErrTooManyRules indicates a request exceeds MaxRulesPerRequest.
	ErrTooManyRules = errors.New("too many rules in request")

	// ErrTooManyFacts indicates a request exceeds MaxFactsPerRequest.
	ErrTooManyFacts = errors.New("too many facts in request")

	// ErrUnknownKind indicates a fact declares an unrecognized value kind.
	ErrUnknownKind = errors.New("unknown fact kind")

	// ErrFactPathNotFound indicates a fact path could not be resolved
	// against the request data.
	ErrFactPathNotFound = errors.New("fact path not found")

	// ErrInvalidFact indicates a fact binding is structurally invalid.
	ErrInvalidFact = errors.New("invalid fact")
)
