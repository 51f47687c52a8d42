package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Cloudinary stores images in a Cloudinary media library.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary builds the backend from a cloudinary:// URL.
func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Save(ctx context.Context, folder string, file *multipart.FileHeader) (Upload, error) {
	src, err := file.Open()
	if err != nil {
		return Upload{}, err
	}
	defer src.Close()

	res, err := c.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return Upload{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	return Upload{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}
