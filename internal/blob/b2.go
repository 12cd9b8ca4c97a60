package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kurin/blazer/b2"
)

// B2 stores uploads in a Backblaze B2 bucket.
type B2 struct {
	client *b2.Client
	bucket *b2.Bucket
}

// NewB2 connects to B2 and binds the named bucket.
func NewB2(ctx context.Context, accountID, appKey, bucketName string) (*B2, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}
	return &B2{client: client, bucket: bucket}, nil
}

// Upload writes the buffer under folder/<uuid> and returns its public URL.
func (s *B2) Upload(ctx context.Context, data []byte, mimeType, folder string) (*Upload, error) {
	key := fmt.Sprintf("%s/%s", folder, uuid.New().String())
	obj := s.bucket.Object(key)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}
	url := fmt.Sprintf("%s/file/%s/%s", s.bucket.BaseURL(), s.bucket.Name(), key)
	return &Upload{URL: url, PublicID: key}, nil
}
