// Package gateway orchestrates the upload request lifecycle: authenticate,
// parse, stage, validate, relay, translate.
//
// Each request runs through an explicit state machine that is terminal at
// the first failure:
//
//	RECEIVED -> AUTHENTICATING -> PARSING -> STAGING -> VALIDATING
//	         -> RELAYING -> TRANSLATING -> DONE
//
// with failure terminals UNAUTHENTICATED, MALFORMED_UPLOAD, STORAGE_ERROR,
// INVALID_FILE, BAD_GATEWAY, INTERNAL_ERROR, and ABORTED. Whatever the
// terminal state, the staged file is released before the response body is
// written; the release obligation is carried by a deferred call on the
// processing path so no branch can skip it.
//
// The identity provider and the analytics backend stay behind capability
// interfaces (authguard.TokenVerifier, RelayClient) so either can be swapped
// or faked in tests without touching the orchestration.
package gateway
