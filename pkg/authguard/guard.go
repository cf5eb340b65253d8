package authguard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Identity is the authenticated caller: an opaque user id plus the bearer
// token forwarded to the analytics backend.
type Identity struct {
	UserID string
	Token  string
}

// TokenVerifier verifies a bearer token and returns the caller's user id.
// Implementations should return errors wrapping ErrUnauthenticated or
// ErrTokenUnavailable; anything else is treated as ErrUnauthenticated.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Guard authenticates inbound requests.
type Guard struct {
	verifier TokenVerifier
}

// New creates a Guard backed by the given verifier.
func New(verifier TokenVerifier) *Guard {
	if verifier == nil {
		panic("authguard: nil verifier")
	}
	return &Guard{verifier: verifier}
}

// Authenticate extracts and verifies the request's bearer token, returning
// the caller's identity. It never touches the request body.
func (g *Guard) Authenticate(r *http.Request) (Identity, error) {
	raw, err := bearerToken(r)
	if err != nil {
		return Identity{}, err
	}

	userID, err := g.verifier.Verify(r.Context(), raw)
	if err != nil {
		if errors.Is(err, ErrTokenUnavailable) {
			return Identity{}, err
		}
		if errors.Is(err, ErrUnauthenticated) {
			return Identity{}, err
		}
		// Fail closed on anything the verifier did not classify.
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if userID == "" {
		return Identity{}, fmt.Errorf("%w: verifier returned empty user id", ErrUnauthenticated)
	}

	return Identity{UserID: userID, Token: raw}, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header per RFC 6750.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("%w: missing Authorization header", ErrUnauthenticated)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fmt.Errorf("%w: malformed Authorization header", ErrUnauthenticated)
	}
	return parts[1], nil
}
