package upload_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/processlens/gateway/pkg/upload"
)

func TestValidatorValidate(t *testing.T) {
	t.Parallel()

	v := upload.NewValidator()

	t.Run("classification is total", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name        string
			filename    string
			contentType string
			wantErr     error
		}{
			{"csv extension", "orders.csv", "", nil},
			{"xes extension", "log.xes", "", nil},
			{"xlsx extension", "export.xlsx", "", nil},
			{"uppercase extension", "ORDERS.CSV", "", nil},
			{"csv content type with odd extension", "export.dat", "text/csv", nil},
			{"xml content type", "log.bin", "application/xml; charset=utf-8", nil},
			{"xlsx content type", "blob", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil},
			{"pdf rejected", "report.pdf", "application/pdf", upload.ErrInvalidFileType},
			{"exe rejected", "payload.exe", "application/octet-stream", upload.ErrInvalidFileType},
			{"txt rejected", "notes.txt", "text/plain", upload.ErrInvalidFileType},
			{"no extension rejected", "eventlog", "", upload.ErrInvalidFileType},
			{"empty name rejected", "", "", upload.ErrInvalidFileType},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				err := v.Validate(tt.filename, tt.contentType, 10, nil)
				if tt.wantErr == nil {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			})
		}
	})

	t.Run("sniffs content when type undeclared", func(t *testing.T) {
		t.Parallel()
		// XML payload with an unknown extension: the declared type is empty,
		// so acceptance must come from content detection.
		content := bytes.NewReader([]byte(`<?xml version="1.0"?><log xmlns="http://www.xes-standard.org/"></log>`))
		assert.NoError(t, v.Validate("eventlog.tmp", "", 70, content))
	})

	t.Run("sniffing cannot save a plain text file", func(t *testing.T) {
		t.Parallel()
		content := bytes.NewReader([]byte("just some notes\nsecond line\n"))
		assert.ErrorIs(t, v.Validate("notes", "", 28, content), upload.ErrInvalidFileType)
	})

	t.Run("rejection message names the offender and the allow-set", func(t *testing.T) {
		t.Parallel()
		err := v.Validate("report.pdf", "application/pdf", 10, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".pdf")
		assert.Contains(t, err.Error(), ".csv")
		assert.Contains(t, err.Error(), ".xes")
		assert.Contains(t, err.Error(), ".xlsx")
	})

	t.Run("payload too large", func(t *testing.T) {
		t.Parallel()
		small := upload.NewValidator(upload.WithMaxBytes(1024))
		err := small.Validate("orders.csv", "text/csv", 2048, nil)
		assert.ErrorIs(t, err, upload.ErrPayloadTooLarge)
	})

	t.Run("size at the ceiling passes", func(t *testing.T) {
		t.Parallel()
		small := upload.NewValidator(upload.WithMaxBytes(1024))
		assert.NoError(t, small.Validate("orders.csv", "text/csv", 1024, nil))
	})
}

func TestValidatorValidateFileCount(t *testing.T) {
	t.Parallel()

	v := upload.NewValidator()

	assert.NoError(t, v.ValidateFileCount(1))
	assert.ErrorIs(t, v.ValidateFileCount(0), upload.ErrInvalidUpload)
	assert.ErrorIs(t, v.ValidateFileCount(2), upload.ErrInvalidUpload)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"orders.csv", "orders.csv"},
		{"../../../etc/passwd", "passwd"},
		{"C:\\Windows\\log.xes", "log.xes"},
		{"name\x00.csv", "name.csv"},
		{"", "unnamed"},
		{"..", "unnamed"},
		{"/", "unnamed"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, upload.SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestAllowedExtensions(t *testing.T) {
	t.Parallel()
	list := upload.AllowedExtensions()
	assert.Equal(t, ".csv, .xes, .xlsx", list)
	assert.False(t, strings.Contains(list, ".exe"))
}
