package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxFileSize = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Disk stores images under a local directory, served by the app at /uploads.
type Disk struct {
	dir string
}

func NewDisk(dir string) *Disk { return &Disk{dir: dir} }

func (d *Disk) Save(_ context.Context, folder string, file *multipart.FileHeader) (Upload, error) {
	if file.Size > maxFileSize {
		return Upload{}, fmt.Errorf("file %s exceeds the 10MB limit", file.Filename)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return Upload{}, fmt.Errorf("file %s must be jpg, jpeg, or png", file.Filename)
	}

	name := fmt.Sprintf("%s_%d_%s%s", folder, time.Now().UnixNano(), randString(6), ext)
	dst := filepath.Join(d.dir, name)

	src, err := file.Open()
	if err != nil {
		return Upload{}, err
	}
	defer src.Close()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Upload{}, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return Upload{}, err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return Upload{}, err
	}

	return Upload{URL: "/uploads/" + name, PublicID: name}, nil
}

func (d *Disk) Destroy(_ context.Context, publicID string) error {
	if publicID == "" {
		return errors.New("empty public id")
	}
	// The id is a bare filename; refuse anything that escapes the dir.
	if strings.Contains(publicID, "/") || strings.Contains(publicID, "\\") || strings.Contains(publicID, "..") {
		return fmt.Errorf("invalid public id %q", publicID)
	}
	return os.Remove(filepath.Join(d.dir, publicID))
}

// randString returns a short random hex string of length n.
func randString(n int) string {
	if n <= 0 {
		n = 6
	}
	b := make([]byte, (n+1)/2)
	_, _ = rand.Read(b)
	s := hex.EncodeToString(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}
