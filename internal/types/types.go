// Package types provides domain models shared across the evaluation service.
//
// Zero-dependency design: types.go and errors.go use only the standard
// library. ID utilities in ids.go import uuid but are isolated so callers
// that never mint IDs avoid the dependency.
package types

// EvaluationID represents a UUIDv7 evaluation identifier.
// String alias enables type safety while maintaining JSON string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type EvaluationID string

// Resource limits enforced by the evaluation API to bound request cost.
const (
	// MaxPayloadSize limits the request body to prevent OOM on decode.
	// 1MB allows large rule sets and fact maps; anything bigger belongs
	// in multiple requests.
	MaxPayloadSize = 1024 * 1024

	// MaxRulesPerRequest caps the rules evaluated in a single call.
	MaxRulesPerRequest = 256

	// MaxFactsPerRequest caps the fact bindings in a single call.
	MaxFactsPerRequest = 256

	// MaxFactPathDepth prevents unbounded recursion when a fact value is
	// extracted from nested request data with a dotted path.
	MaxFactPathDepth = 16
)
