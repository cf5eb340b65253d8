package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBackendURL indicates the client was constructed without a
	// backend base URL. Fatal configuration error, detected at startup.
	ErrMissingBackendURL = errors.New("relay: backend base URL is not configured")
	// ErrInvalidBackendURL indicates the configured base URL does not parse.
	ErrInvalidBackendURL = errors.New("relay: backend base URL is invalid")
	// ErrNilStagedFile indicates Relay was called without a staged file.
	ErrNilStagedFile = errors.New("relay: staged file is nil")
)

// TransportError indicates the backend never produced a usable HTTP
// response: connection failure, timeout, or a body that is not the agreed
// JSON shape.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay: transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
