// Package blob stores uploaded files with an external object store. Two
// drivers exist: Cloudinary (the default) and Backblaze B2. Uploads in the
// analyze flow are best-effort; callers log failures and continue.
package blob

import (
	"context"
	"fmt"

	"unitime-backend/internal/config"
)

// Upload is the stored location of one uploaded file.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

// Uploader stores a file under a folder and returns its public location.
type Uploader interface {
	Upload(ctx context.Context, data []byte, mimeType, folder string) (*Upload, error)
}

// NewUploader constructs the configured blob driver, or nil when the driver
// is "none".
func NewUploader(cfg *config.Config) (Uploader, error) {
	switch cfg.BlobDriver {
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret), nil
	case "b2":
		return NewB2(context.Background(), cfg.B2AccountID, cfg.B2AppKey, cfg.B2Bucket)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported BLOB_DRIVER: %s", cfg.BlobDriver)
	}
}
