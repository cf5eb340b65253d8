package upload

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is the upload size ceiling when none is configured.
const DefaultMaxBytes int64 = 100 << 20 // 100 MiB

// allowedExtensions and allowedMIMETypes are the fixed allow-sets for
// event-log files. Acceptance is extension OR content type; this is
// deliberately permissive for the PoC and noted as a latent gap.
var (
	allowedExtensions = map[string]struct{}{
		".csv":  {},
		".xes":  {},
		".xlsx": {},
	}

	allowedMIMETypes = map[string]struct{}{
		"text/csv":        {},
		"application/csv": {},
		"text/xml":        {},
		"application/xml": {},
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	}
)

// Validator classifies uploads against the fixed policy.
type Validator struct {
	maxBytes int64
}

// Option configures the Validator.
type Option func(*Validator)

// WithMaxBytes overrides the payload size ceiling.
func WithMaxBytes(n int64) Option {
	if n <= 0 {
		panic("upload: WithMaxBytes requires a positive limit")
	}
	return func(v *Validator) { v.maxBytes = n }
}

// NewValidator creates a Validator with the default ceiling.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// MaxBytes returns the configured payload ceiling.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateFileCount enforces the exactly-one-file invariant.
func (v *Validator) ValidateFileCount(n int) error {
	if n == 1 {
		return nil
	}
	return fmt.Errorf("%w: got %d files", ErrInvalidUpload, n)
}

// Validate classifies a staged upload. size is the exact staged byte count.
// content is only consulted when the declared content type is missing or the
// generic application/octet-stream; it may be nil, in which case
// classification falls back to the extension alone.
func (v *Validator) Validate(filename, contentType string, size int64, content io.Reader) error {
	if size > v.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrPayloadTooLarge, size, v.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(SanitizeFilename(filename)))
	if _, ok := allowedExtensions[ext]; ok {
		return nil
	}

	declared := normalizeMIME(contentType)
	if (declared == "" || declared == "application/octet-stream") && content != nil {
		if detected, err := mimetype.DetectReader(content); err == nil {
			declared = normalizeMIME(detected.String())
		}
	}
	if _, ok := allowedMIMETypes[declared]; ok {
		return nil
	}

	return fmt.Errorf("%w: extension %q, content type %q (allowed extensions: %s)",
		ErrInvalidFileType, ext, declared, AllowedExtensions())
}

// AllowedExtensions returns the extension allow-set as a sorted, comma-
// separated list for diagnostics.
func AllowedExtensions() string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// normalizeMIME strips parameters ("; charset=utf-8") and lowercases the type.
func normalizeMIME(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// SanitizeFilename removes path components and dangerous characters from an
// untrusted filename. Returns "unnamed" for empty or special directory
// references.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}
	return filename
}
