// Package auth provides bearer-token authentication for the HTTP API.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
	"strings"
)

// Authenticator validates bearer tokens against a configured set.
// Tokens are stored as SHA-256 digests so comparisons run over
// fixed-length values and hmac.Equal stays constant-time.
type Authenticator struct {
	digests [][]byte
}

// NewAuthenticator creates an authenticator from the configured tokens.
// An empty token list disables authentication; see Enabled.
func NewAuthenticator(tokens []string) *Authenticator {
	a := &Authenticator{}
	for _, t := range tokens {
		sum := sha256.Sum256([]byte(t))
		a.digests = append(a.digests, sum[:])
	}
	return a
}

// Enabled reports whether any tokens are configured.
func (a *Authenticator) Enabled() bool {
	return len(a.digests) > 0
}

// Authenticate validates a presented bearer token.
// Every configured digest is compared so timing does not leak which
// token matched.
func (a *Authenticator) Authenticate(token string) error {
	sum := sha256.Sum256([]byte(token))
	matched := false
	for _, d := range a.digests {
		if hmac.Equal(d, sum[:]) {
			matched = true
		}
	}
	if !matched {
		return ErrInvalidToken
	}
	return nil
}

// Middleware returns HTTP middleware that rejects requests without a
// valid Authorization: Bearer token. When no tokens are configured the
// middleware passes everything through.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			if err := a.Authenticate(token); err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
