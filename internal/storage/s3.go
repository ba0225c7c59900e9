package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/config"
	"github.com/clipstream/backend/internal/logging"
)

// S3MediaStore stores uploaded media in an S3-compatible bucket and
// addresses objects by their public URL.
type S3MediaStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3MediaStore configures a client targeting the provided object store.
func NewS3MediaStore(ctx context.Context, cfg config.ObjectStoreConfig) (*S3MediaStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 media store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3MediaStore{
		client:   client,
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload pushes the file at localPath into the bucket under a fresh
// random key, preserving the file extension, and returns the object's
// public URL.
func (s *S3MediaStore) Upload(ctx context.Context, localPath string) (string, error) {
	ctx, span := logging.StartSpan(ctx, "media.upload")
	defer span.End()

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3 media store: open %s: %w", localPath, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(localPath))
	key := uuid.NewString() + ext

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
		ACL:    s3types.ObjectCannedACLPublicRead,
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("s3 media store: upload %s: %w", key, err)
	}

	if s.baseURL == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Delete removes the object addressed by a URL previously returned from
// Upload. URLs outside the configured public base are rejected.
func (s *S3MediaStore) Delete(ctx context.Context, url string) error {
	ctx, span := logging.StartSpan(ctx, "media.delete")
	defer span.End()

	key := url
	if s.baseURL != "" {
		trimmed, found := strings.CutPrefix(url, s.baseURL+"/")
		if !found {
			return fmt.Errorf("s3 media store: url %q is not served from this bucket", url)
		}
		key = trimmed
	}

	key = strings.TrimLeft(key, "/")
	if key == "" {
		return fmt.Errorf("s3 media store: empty key")
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 media store: delete %s: %w", key, err)
	}

	return nil
}
