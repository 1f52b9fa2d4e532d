package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	appconfig "github.com/funkydonkey/fatherhood-is/internal/config"
	"github.com/funkydonkey/fatherhood-is/internal/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage stores objects in an S3-compatible bucket (Cloudflare R2).
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Storage builds an S3 client against the configured R2 endpoint.
func NewS3Storage(cfg *appconfig.Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2EndpointURL)
		o.UsePathStyle = true
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// Upload puts the object with a long-lived cache policy and returns its
// public URL.
func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	ctx, span := observability.GetTraceLayer().TraceUpstreamCall(ctx, "r2", "put_object")
	defer span.End()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(filename),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(ContentTypeFor(filename)),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		observability.StorageUploadErrors.WithLabelValues("r2").Inc()
		observability.RecordErrorInContext(ctx, err)
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, filename), nil
}

// Delete removes the object from the bucket.
func (s *S3Storage) Delete(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}
	return nil
}
