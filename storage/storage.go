// Package storage is the object-storage adapter: it turns an uploaded image
// into a stable URL plus a deletion handle. Two backends exist, local disk
// for development and Cloudinary for deployments.
package storage

import (
	"context"
	"mime/multipart"
)

// Upload is the result of storing one image.
type Upload struct {
	// URL serves the image. Disk URLs are app-relative (/uploads/...),
	// Cloudinary URLs are absolute.
	URL string
	// PublicID is the handle a later Destroy call needs.
	PublicID string
}

// Storage stores and destroys uploaded images. Save must fail before any
// caller touches the database; a failed upload aborts the whole operation.
type Storage interface {
	Save(ctx context.Context, folder string, file *multipart.FileHeader) (Upload, error)
	Destroy(ctx context.Context, publicID string) error
}
