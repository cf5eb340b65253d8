package authguard

import "errors"

var (
	// ErrUnauthenticated indicates no verifiable caller identity is present.
	ErrUnauthenticated = errors.New("authguard: unauthenticated")
	// ErrTokenUnavailable indicates an identity exists but no forwardable
	// token could be obtained (expired session or provider error).
	ErrTokenUnavailable = errors.New("authguard: session token unavailable")
)
