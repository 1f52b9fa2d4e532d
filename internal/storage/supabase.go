package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appconfig "github.com/funkydonkey/fatherhood-is/internal/config"
	"github.com/funkydonkey/fatherhood-is/internal/observability"
)

// SupabaseStorage stores objects through the Supabase Storage REST API.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseStorage returns Supabase-backed storage.
func NewSupabaseStorage(cfg *appconfig.Config) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimSuffix(cfg.SupabaseURL, "/"),
		serviceKey: cfg.SupabaseServiceKey,
		bucket:     cfg.SupabaseBucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload POSTs the object and returns its public URL.
func (s *SupabaseStorage) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	ctx, span := observability.GetTraceLayer().TraceUpstreamCall(ctx, "supabase", "upload_object")
	defer span.End()

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", ContentTypeFor(filename))
	req.Header.Set("Cache-Control", "public, max-age=31536000")
	// Allow retried uploads to overwrite a half-written object.
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		observability.StorageUploadErrors.WithLabelValues("supabase").Inc()
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		observability.StorageUploadErrors.WithLabelValues("supabase").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("failed to upload %s: status %d: %s", filename, resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, filename), nil
}

// Delete removes the object. A 404 is treated as success.
func (s *SupabaseStorage) Delete(ctx context.Context, filename string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("failed to delete %s: status %d", filename, resp.StatusCode)
	}
	return nil
}
