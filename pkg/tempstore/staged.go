package tempstore

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// StagedFile is the ownership handle binding one request to one staged
// location. It is never shared across requests and must be released exactly
// once per request lifecycle; extra Release calls are no-ops.
type StagedFile struct {
	fs   afero.Fs
	path string
	name string
	size int64

	releaseOnce sync.Once
	released    bool
	mu          sync.Mutex
}

// Path returns the absolute staged location.
func (f *StagedFile) Path() string { return f.path }

// Name returns the staged file name (request id plus extension).
func (f *StagedFile) Name() string { return f.name }

// Size returns the number of bytes written during staging, measured from the
// actual copy rather than the multipart header.
func (f *StagedFile) Size() int64 { return f.size }

// Open returns a reader over the staged bytes.
func (f *StagedFile) Open() (afero.File, error) {
	file, err := f.fs.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	return file, nil
}

// Release unlinks the staged file. A file that is already gone is not an
// error; repeated calls do nothing. A non-nil error means the unlink itself
// failed and should be logged by the caller, never surfaced to the client.
func (f *StagedFile) Release() error {
	var err error
	f.releaseOnce.Do(func() {
		if rmErr := f.fs.Remove(f.path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = fmt.Errorf("%w: %v", ErrFailedToDeleteFile, rmErr)
			return
		}
		f.mu.Lock()
		f.released = true
		f.mu.Unlock()
	})
	return err
}

// Released reports whether the file has been unlinked.
func (f *StagedFile) Released() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}
