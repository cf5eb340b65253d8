// Package tempstore stages uploaded files under a scratch directory for the
// lifetime of a single request.
//
// Stage writes the multipart payload to a location unique to the request
// (request id plus the upload's original extension), creating the scratch
// directory on first use. The returned StagedFile is exclusively owned by the
// request and must be released on every path out of the handler:
//
//	staged, err := store.Stage(ctx, requestID, fh)
//	if err != nil {
//		return err
//	}
//	defer staged.Release()
//
// Release has delete-if-exists semantics and is idempotent; calling it twice
// is a no-op. The store runs on an afero filesystem so tests can exercise
// failure modes without touching the host disk.
package tempstore
