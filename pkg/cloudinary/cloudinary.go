// Package cloudinary wraps the pieces of the Cloudinary SDK the platform
// uses for cover photos, advert images, avatars and license attachments.
package cloudinary

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// UploadResult carries what handlers persist alongside the owning record.
type UploadResult struct {
	URL       string
	SecureURL string
	PublicID  string
}

// Client is the object-storage capability handlers depend on. Kept as an
// interface so tests can stub uploads.
type Client interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type clientImpl struct {
	uploader *uploader.API
}

// NewClient builds a Client from Cloudinary credentials.
func NewClient(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{uploader: up}, nil
}

func (c *clientImpl) Upload(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		URL:       result.URL,
		SecureURL: result.SecureURL,
		PublicID:  result.PublicID,
	}, nil
}

func (c *clientImpl) Delete(ctx context.Context, publicID string) error {
	_, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
