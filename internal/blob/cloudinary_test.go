package blob

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryUpload(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.test/demo/img.png","public_id":"unitime/img"}`))
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "key", "secret").WithBaseURL(srv.URL)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	up, err := c.Upload(context.Background(), []byte("png-bytes"), "image/png", "unitime")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.test/demo/img.png", up.URL)
	assert.Equal(t, "unitime/img", up.PublicID)
	assert.Equal(t, "/v1_1/demo/auto/upload", gotPath)
	assert.Equal(t, "1700000000", gotForm["timestamp"])
	assert.Equal(t, "unitime", gotForm["folder"])

	sum := sha1.Sum([]byte("folder=unitime&timestamp=1700000000secret"))
	assert.Equal(t, hex.EncodeToString(sum[:]), gotForm["signature"])
}

func TestCloudinaryUploadAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "key", "bad").WithBaseURL(srv.URL)
	_, err := c.Upload(context.Background(), []byte("x"), "image/png", "unitime")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestCloudinaryUploadMissingCredentials(t *testing.T) {
	c := NewCloudinary("", "", "")
	_, err := c.Upload(context.Background(), []byte("x"), "image/png", "unitime")
	require.Error(t, err)
}
