package storage_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelnel19/BAHA-ALERT/storage"
)

// fileHeader builds a real multipart.FileHeader the way a Fiber handler
// would receive it.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestDiskSave(t *testing.T) {
	dir := t.TempDir()
	d := storage.NewDisk(dir)

	up, err := d.Save(context.Background(), "flood_reports", fileHeader(t, "photo.PNG", []byte("pixels")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.URL, "/uploads/flood_reports_"))
	assert.True(t, strings.HasSuffix(up.PublicID, ".png"), "extension is lowercased")
	assert.Equal(t, "/uploads/"+up.PublicID, up.URL)

	data, err := os.ReadFile(filepath.Join(dir, up.PublicID))
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), data)
}

func TestDiskSave_RejectsUnknownExtension(t *testing.T) {
	d := storage.NewDisk(t.TempDir())

	_, err := d.Save(context.Background(), "flood_reports", fileHeader(t, "report.pdf", []byte("x")))
	assert.Error(t, err)

	_, err = d.Save(context.Background(), "flood_reports", fileHeader(t, "noext", []byte("x")))
	assert.Error(t, err)
}

func TestDiskDestroy(t *testing.T) {
	dir := t.TempDir()
	d := storage.NewDisk(dir)

	up, err := d.Save(context.Background(), "lgu_schedules", fileHeader(t, "poster.jpg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, d.Destroy(context.Background(), up.PublicID))
	_, err = os.Stat(filepath.Join(dir, up.PublicID))
	assert.True(t, os.IsNotExist(err))

	t.Run("refuses path escapes", func(t *testing.T) {
		assert.Error(t, d.Destroy(context.Background(), "../escape.png"))
		assert.Error(t, d.Destroy(context.Background(), "sub/dir.png"))
		assert.Error(t, d.Destroy(context.Background(), ""))
	})
}
