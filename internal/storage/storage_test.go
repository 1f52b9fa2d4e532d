package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/funkydonkey/fatherhood-is/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://localhost:8000")

	url, err := s.Upload(context.Background(), []byte("png-bytes"), "img.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/uploads/img.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "img.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(context.Background(), "img.png"))
	_, err = os.Stat(filepath.Join(dir, "img.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing object is not an error.
	assert.NoError(t, s.Delete(context.Background(), "img.png"))
}

func TestLocalStorageStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "")

	url, err := s.Upload(context.Background(), []byte("x"), "../../etc/evil.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/evil.png", url)

	_, err = os.Stat(filepath.Join(dir, "evil.png"))
	assert.NoError(t, err)
}

func TestSupabaseStorageUpload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(&appconfig.Config{
		SupabaseURL:        srv.URL,
		SupabaseServiceKey: "service-key",
		SupabaseBucket:     "images",
	})

	url, err := s.Upload(context.Background(), []byte("webp"), "a.webp")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/images/a.webp", url)
	assert.Equal(t, "/storage/v1/object/images/a.webp", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/webp", gotType)
}

func TestSupabaseStorageUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(&appconfig.Config{
		SupabaseURL:        srv.URL,
		SupabaseServiceKey: "k",
		SupabaseBucket:     "missing",
	})

	_, err := s.Upload(context.Background(), []byte("x"), "a.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSupabaseStorageDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(&appconfig.Config{
		SupabaseURL:        srv.URL,
		SupabaseServiceKey: "k",
		SupabaseBucket:     "images",
	})

	assert.NoError(t, s.Delete(context.Background(), "gone.png"))
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "img.png", NameFromURL("https://cdn.example.com/img.png"))
	assert.Equal(t, "img.png", NameFromURL("/uploads/img.png"))
	assert.Equal(t, "", NameFromURL("no-slashes"))
	assert.Equal(t, "", NameFromURL("https://cdn.example.com/"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor("a.png"))
	assert.Equal(t, "image/webp", ContentTypeFor("a.webp"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpg"))
}

func TestNewFromConfigSelectsBackend(t *testing.T) {
	local, err := NewFromConfig(&appconfig.Config{UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, local)

	supa, err := NewFromConfig(&appconfig.Config{
		SupabaseURL:        "https://proj.supabase.co",
		SupabaseServiceKey: "k",
		SupabaseBucket:     "images",
	})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStorage{}, supa)

	r2, err := NewFromConfig(&appconfig.Config{
		R2EndpointURL:     "https://acct.r2.cloudflarestorage.com",
		R2AccessKeyID:     "id",
		R2SecretAccessKey: "secret",
		R2BucketName:      "images",
		R2PublicURL:       "https://cdn.example.com",
	})
	require.NoError(t, err)
	assert.IsType(t, &S3Storage{}, r2)
}
