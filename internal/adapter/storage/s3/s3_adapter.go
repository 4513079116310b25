// Package s3 stores listing images in a MinIO (S3-compatible)
// bucket. Object keys are chosen by the caller; public URLs are
// derived from the client endpoint.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ferialibre/catalog-service/internal/platform/logger"
)

type S3Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log.Info("initializing image storage", "endpoint", endpoint, "bucket", bucketName, "use_ssl", useSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucketName)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("making/verifying bucket %s: %w", bucketName, err)
		}
	}

	return &S3Storage{client: client, bucket: bucketName, logger: log.Named("s3")}, nil
}

// Upload stores data under the given key and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.logger.Info("S3Storage.Upload: uploading object",
		"bucket", s.bucket, "key", key, "size_bytes", len(data))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("S3Storage.Upload: put failed", "bucket", s.bucket, "key", key, "error", err.Error())
		return "", fmt.Errorf("uploading object %s to bucket %s: %w", key, s.bucket, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key), nil
}

// Remove deletes a stored object; used when a listing is deleted.
func (s *S3Storage) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
