package blob

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Cloudinary uploads file buffers through the Cloudinary upload API using
// signed requests.
type Cloudinary struct {
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

// NewCloudinary builds the default object-store driver.
func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	c := resty.New().
		SetBaseURL("https://api.cloudinary.com").
		SetTimeout(60 * time.Second)
	return &Cloudinary{
		client:    c,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
}

// WithBaseURL overrides the API endpoint, for tests.
func (c *Cloudinary) WithBaseURL(base string) *Cloudinary {
	c.client.SetBaseURL(base)
	return c
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the buffer to /v1_1/{cloud}/auto/upload with a SHA-1 request
// signature over the folder and timestamp parameters.
func (c *Cloudinary) Upload(ctx context.Context, data []byte, mimeType, folder string) (*Upload, error) {
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return nil, fmt.Errorf("cloudinary: missing credentials")
	}
	ts := strconv.FormatInt(c.now().Unix(), 10)
	signature := c.sign(folder, ts)

	var out cloudinaryResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", "upload", bytes.NewReader(data)).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"timestamp": ts,
			"folder":    folder,
			"signature": signature,
		}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/v1_1/%s/auto/upload", c.cloudName))
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("cloudinary upload: %s", msg)
	}
	return &Upload{URL: out.SecureURL, PublicID: out.PublicID}, nil
}

// sign computes the Cloudinary request signature: SHA-1 over the sorted
// parameter string plus the API secret.
func (c *Cloudinary) sign(folder, timestamp string) string {
	toSign := fmt.Sprintf("folder=%s&timestamp=%s%s", folder, timestamp, c.apiSecret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
