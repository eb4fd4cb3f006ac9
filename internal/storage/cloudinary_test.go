package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCloudinary(t *testing.T, h http.HandlerFunc) *Cloudinary {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewCloudinary("demo", "key", "secret")
	require.NoError(t, err)
	c.cld.Config.API.UploadPrefix = srv.URL
	return c
}

func TestCloudinary_Put(t *testing.T) {
	var gotFolder, gotPublicID string
	c := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFolder = r.FormValue("folder")
		gotPublicID = r.FormValue("public_id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"travel-blog/1-beach","secure_url":"https://res.cloudinary.com/demo/image/upload/travel-blog/1-beach.jpg"}`))
	})

	obj, err := c.Put(context.Background(), strings.NewReader("img"), PutOptions{Folder: "travel-blog", PublicID: "1-beach"})
	require.NoError(t, err)
	assert.Equal(t, "travel-blog/1-beach", obj.PublicID)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/travel-blog/1-beach.jpg", obj.URL)
	assert.Equal(t, "travel-blog", gotFolder)
	assert.Equal(t, "1-beach", gotPublicID)
}

func TestCloudinary_PutProviderError(t *testing.T) {
	c := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	})

	_, err := c.Put(context.Background(), strings.NewReader("img"), PutOptions{Folder: "travel-blog", PublicID: "x"})
	assert.Error(t, err)
}

func TestCloudinary_Remove(t *testing.T) {
	tests := []struct {
		name    string
		result  string
		wantErr bool
	}{
		{"deleted", "ok", false},
		{"already gone", "not found", false},
		{"unexpected", "pending", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"result":"` + tt.result + `"}`))
			})

			err := c.Remove(context.Background(), "travel-blog/1-beach")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
