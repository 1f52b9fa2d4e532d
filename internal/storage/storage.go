// Package storage abstracts object storage for generated images. Backends:
// S3-compatible (Cloudflare R2), Supabase Storage, and local disk for
// development.
package storage

import (
	"context"
	"strings"

	"github.com/funkydonkey/fatherhood-is/internal/config"
	"github.com/funkydonkey/fatherhood-is/internal/middleware"
)

// Storage stores image objects and returns publicly reachable URLs.
type Storage interface {
	// Upload writes data under filename and returns the public URL.
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	// Delete removes a previously uploaded object. Missing objects are not
	// an error.
	Delete(ctx context.Context, filename string) error
}

// NewFromConfig selects the storage backend: R2 when its credentials are
// complete, then Supabase, then local disk.
func NewFromConfig(cfg *config.Config) (Storage, error) {
	switch {
	case cfg.UseR2():
		middleware.Logger.Info("Using R2 object storage", "bucket", cfg.R2BucketName)
		return NewS3Storage(cfg)
	case cfg.UseSupabase():
		middleware.Logger.Info("Using Supabase storage", "bucket", cfg.SupabaseBucket)
		return NewSupabaseStorage(cfg), nil
	default:
		middleware.Logger.Info("Using local disk storage", "dir", cfg.UploadDir)
		return NewLocalStorage(cfg.UploadDir, cfg.BackendURL), nil
	}
}

// NameFromURL extracts the object name from a public URL produced by any
// backend. Returns "" when url does not look like one of ours.
func NameFromURL(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return ""
	}
	return url[idx+1:]
}

// ContentTypeFor maps a filename extension to its MIME type. Generated
// images are PNG with WebP previews.
func ContentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".webp"):
		return "image/webp"
	case strings.HasSuffix(filename, ".jpg"), strings.HasSuffix(filename, ".jpeg"):
		return "image/jpeg"
	default:
		return "image/png"
	}
}
