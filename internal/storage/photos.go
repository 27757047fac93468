// Package storage persists uploaded bootcamp photos on local disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"bootcamper/internal/domain"
)

// PhotoStore writes uploaded images under a base directory using a
// deterministic name derived from the owning resource id.
type PhotoStore struct {
	dir     string
	maxSize int64
}

func NewPhotoStore(dir string, maxSize int64) *PhotoStore {
	return &PhotoStore{dir: dir, maxSize: maxSize}
}

// Save validates and persists the upload, returning the stored filename.
// Rejections (size, MIME type) are validation errors; disk failures are
// upstream errors so the caller can report the partial-failure case.
func (s *PhotoStore) Save(fh *multipart.FileHeader, resourceID string) (string, error) {
	if fh.Size > s.maxSize {
		return "", domain.ValidationError{
			Field: "file",
			Msg:   fmt.Sprintf("please upload an image less than %d bytes", s.maxSize),
		}
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", domain.ValidationError{Field: "file", Msg: "please upload an image file"}
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := "photo_" + resourceID + ext

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", domain.UpstreamError{Service: "photo storage", Err: err}
	}

	src, err := fh.Open()
	if err != nil {
		return "", domain.UpstreamError{Service: "photo storage", Err: err}
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", domain.UpstreamError{Service: "photo storage", Err: err}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", domain.UpstreamError{Service: "photo storage", Err: err}
	}
	return name, nil
}
