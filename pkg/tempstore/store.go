package tempstore

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// validExtRegex keeps staged names free of anything but a plain dotted
// extension; uploads with hostile names fall back to no extension.
var validExtRegex = regexp.MustCompile(`^\.[a-zA-Z0-9]+$`)

// Store manages the scratch directory for staged uploads. Collision safety
// across concurrent requests comes from unique per-request naming, not
// locking.
type Store struct {
	fs   afero.Fs
	root string
}

// Option configures the Store.
type Option func(*Store)

// WithFs replaces the backing filesystem. Intended for tests.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// New creates a Store rooted at dir. An empty dir defaults to a
// process-local subdirectory of the OS temp directory.
func New(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "processlens-uploads")
	}
	s := &Store{
		fs:   afero.NewOsFs(),
		root: dir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the scratch directory path.
func (s *Store) Root() string {
	return s.root
}

// Stage writes the uploaded file to a request-unique path under the scratch
// directory and returns its ownership handle. The copy observes ctx so a
// disconnected caller aborts the write; partial files are removed before
// returning an error.
func (s *Store) Stage(ctx context.Context, requestID string, fh *multipart.FileHeader) (*StagedFile, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	if requestID == "" {
		return nil, ErrEmptyRequestID
	}

	// MkdirAll is idempotent and safe under concurrent staging.
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	name := requestID + safeExtension(fh.Filename)
	path := filepath.Join(s.root, name)

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateFile, err)
	}

	written, err := copyWithContext(ctx, dst, src)
	if cerr := dst.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: %v", ErrFailedToWriteFile, cerr)
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return nil, err
	}

	return &StagedFile{
		fs:   s.fs,
		path: path,
		name: name,
		size: written,
	}, nil
}

// copyWithContext streams src to dst in 32KB chunks, checking for
// cancellation between chunks so large uploads abort promptly.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	var written int64
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			nw, writeErr := dst.Write(buf[:n])
			if writeErr != nil {
				return written, fmt.Errorf("%w: %v", ErrFailedToWriteFile, writeErr)
			}
			written += int64(nw)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("%w: %v", ErrFailedToReadFile, readErr)
		}
	}
}

// safeExtension extracts a lowercase extension from an untrusted filename,
// stripping any path components first. Anything that does not look like a
// plain dotted extension is dropped.
func safeExtension(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !validExtRegex.MatchString(ext) {
		return ""
	}
	return ext
}
