// Package storage holds the binary/media stores: local disk or S3 for
// document files, Cloudinary for update images and videos.
package storage

import (
	"context"
	"io"
)

// Blob stores document binaries. Upload returns the public URL the stored
// file is served from; Delete takes the file name component of that URL.
type Blob interface {
	Upload(ctx context.Context, name string, file io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}
