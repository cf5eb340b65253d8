package upload

import "errors"

var (
	// ErrInvalidUpload indicates the request did not carry exactly one file.
	ErrInvalidUpload = errors.New("upload: request must contain exactly one file")
	// ErrInvalidFileType indicates neither the extension nor the content type
	// is in the allow-set.
	ErrInvalidFileType = errors.New("upload: file type not allowed")
	// ErrPayloadTooLarge indicates the staged file exceeds the size ceiling.
	ErrPayloadTooLarge = errors.New("upload: payload too large")
)
