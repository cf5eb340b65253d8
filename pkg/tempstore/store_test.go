package tempstore_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/processlens/gateway/pkg/tempstore"
)

func createFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := &http.Request{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": []string{writer.FormDataContentType()}},
		Body:   io.NopCloser(body),
	}
	require.NoError(t, req.ParseMultipartForm(32<<20))
	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestStoreStage(t *testing.T) {
	t.Parallel()

	t.Run("stages under request-unique name", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		store := tempstore.New(filepath.Join(root, "scratch"))

		content := []byte("case_id,activity,timestamp\n1,start,2026-01-01")
		staged, err := store.Stage(context.Background(), "req-1", createFileHeader(t, "orders.csv", content))
		require.NoError(t, err)
		defer func() { _ = staged.Release() }()

		assert.Equal(t, "req-1.csv", staged.Name())
		assert.Equal(t, int64(len(content)), staged.Size())

		data, err := os.ReadFile(staged.Path())
		require.NoError(t, err)
		assert.Equal(t, content, data)
	})

	t.Run("creates scratch directory on first use", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "scratch")
		store := tempstore.New(dir)

		staged, err := store.Stage(context.Background(), "req-2", createFileHeader(t, "log.xes", []byte("<log/>")))
		require.NoError(t, err)
		defer func() { _ = staged.Release() }()

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("hostile filename loses its extension", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())

		staged, err := store.Stage(context.Background(), "req-3", createFileHeader(t, "../../etc/passwd.d$", []byte("x")))
		require.NoError(t, err)
		defer func() { _ = staged.Release() }()

		assert.Equal(t, "req-3", staged.Name())
		assert.Equal(t, store.Root(), filepath.Dir(staged.Path()))
	})

	t.Run("nil header rejected", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())
		_, err := store.Stage(context.Background(), "req-4", nil)
		assert.ErrorIs(t, err, tempstore.ErrNilFileHeader)
	})

	t.Run("empty request id rejected", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())
		_, err := store.Stage(context.Background(), "", createFileHeader(t, "a.csv", []byte("x")))
		assert.ErrorIs(t, err, tempstore.ErrEmptyRequestID)
	})

	t.Run("canceled context aborts and removes partial file", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Stage(ctx, "req-5", createFileHeader(t, "orders.csv", []byte("data")))
		require.ErrorIs(t, err, context.Canceled)

		entries, err := os.ReadDir(store.Root())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("read-only filesystem is storage unavailable", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New("/scratch", tempstore.WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))

		_, err := store.Stage(context.Background(), "req-6", createFileHeader(t, "a.csv", []byte("x")))
		assert.ErrorIs(t, err, tempstore.ErrStorageUnavailable)
	})
}

func TestStagedFileRelease(t *testing.T) {
	t.Parallel()

	t.Run("release removes the file", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())
		staged, err := store.Stage(context.Background(), "req-7", createFileHeader(t, "a.csv", []byte("x")))
		require.NoError(t, err)

		require.NoError(t, staged.Release())
		assert.True(t, staged.Released())
		assert.NoFileExists(t, staged.Path())
	})

	t.Run("double release is a no-op", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())
		staged, err := store.Stage(context.Background(), "req-8", createFileHeader(t, "a.csv", []byte("x")))
		require.NoError(t, err)

		require.NoError(t, staged.Release())
		require.NoError(t, staged.Release())
		require.NoError(t, staged.Release())
	})

	t.Run("release tolerates a file already gone", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())
		staged, err := store.Stage(context.Background(), "req-9", createFileHeader(t, "a.csv", []byte("x")))
		require.NoError(t, err)

		require.NoError(t, os.Remove(staged.Path()))
		assert.NoError(t, staged.Release())
	})

	t.Run("concurrent requests never collide", func(t *testing.T) {
		t.Parallel()
		store := tempstore.New(t.TempDir())

		a, err := store.Stage(context.Background(), "req-a", createFileHeader(t, "a.csv", []byte("aaa")))
		require.NoError(t, err)
		b, err := store.Stage(context.Background(), "req-b", createFileHeader(t, "b.csv", []byte("bbb")))
		require.NoError(t, err)

		assert.NotEqual(t, a.Path(), b.Path())

		require.NoError(t, a.Release())
		assert.NoFileExists(t, a.Path())
		assert.FileExists(t, b.Path())
		require.NoError(t, b.Release())
	})
}
