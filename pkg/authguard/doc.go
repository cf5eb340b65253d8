// Package authguard authenticates upload requests before any multipart
// parsing or disk I/O happens.
//
// The guard extracts an "Authorization: Bearer" token and verifies it through
// the TokenVerifier capability interface, so the identity provider can be
// swapped or mocked without touching the gateway. Verification failures fail
// closed: a request without a verifiable identity is ErrUnauthenticated, an
// identity whose session can no longer produce a usable token (expired, or a
// provider error) is ErrTokenUnavailable.
package authguard
