package tempstore

import "errors"

var (
	// ErrStorageUnavailable indicates the scratch directory could not be
	// created. Fatal for the request.
	ErrStorageUnavailable = errors.New("tempstore: scratch storage unavailable")
	// ErrNilFileHeader indicates a nil multipart header was passed to Stage.
	ErrNilFileHeader = errors.New("tempstore: file header is nil")
	// ErrEmptyRequestID indicates Stage was called without a request id.
	ErrEmptyRequestID = errors.New("tempstore: empty request id")

	// I/O errors, wrapped with the underlying cause.
	ErrFailedToOpenFile   = errors.New("tempstore: failed to open uploaded file")
	ErrFailedToCreateFile = errors.New("tempstore: failed to create staged file")
	ErrFailedToReadFile   = errors.New("tempstore: failed to read uploaded file")
	ErrFailedToWriteFile  = errors.New("tempstore: failed to write staged file")
	ErrFailedToDeleteFile = errors.New("tempstore: failed to delete staged file")
)
