package token

import "errors"

var (
	// ErrMissingSigningKey indicates the service was constructed without a key.
	ErrMissingSigningKey = errors.New("token: missing signing key")
	// ErrMissingClaims indicates nil claims were passed to Generate.
	ErrMissingClaims = errors.New("token: missing claims")
	// ErrInvalidToken indicates the token is structurally invalid or not yet valid.
	ErrInvalidToken = errors.New("token: invalid token")
	// ErrInvalidSignature indicates the signature does not match the payload.
	ErrInvalidSignature = errors.New("token: invalid signature")
	// ErrUnexpectedSigningMethod indicates the token header declares an
	// algorithm other than HS256.
	ErrUnexpectedSigningMethod = errors.New("token: unexpected signing method")
	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("token: token has expired")
)
