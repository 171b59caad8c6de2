package auth

import "errors"

// Authentication error types.
// Both map to 401; the messages never confirm whether a token exists.
var (
	ErrMissingToken = errors.New("bearer token required in Authorization header")
	ErrInvalidToken = errors.New("invalid bearer token")
)
