package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3KeyPrefix = "documents/"

// S3Storage stores document binaries in an S3 bucket under documents/.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Storage builds the store. baseURL overrides the public URL root for
// buckets fronted by a CDN; empty means the standard S3 URL form.
func NewS3Storage(client *s3.Client, bucket, baseURL string) *S3Storage {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}

	return &S3Storage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *S3Storage) Upload(ctx context.Context, name string, file io.Reader, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3KeyPrefix + name),
		Body:        file,
		ContentType: aws.String(contentType),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put s3 object: %w", err)
	}

	return fmt.Sprintf("%s/%s%s", s.baseURL, s3KeyPrefix, name), nil
}

func (s *S3Storage) Delete(ctx context.Context, name string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + name),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("delete s3 object: %w", err)
	}

	return nil
}
