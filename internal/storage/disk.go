package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes document binaries under a local uploads directory
// served by the HTTP server at /uploads/.
type DiskStorage struct {
	baseDir      string
	publicPrefix string
}

func NewDiskStorage(uploadsDir string) *DiskStorage {
	return &DiskStorage{
		baseDir:      filepath.Join(uploadsDir, "documents"),
		publicPrefix: "/uploads/documents",
	}
}

func (s *DiskStorage) Upload(ctx context.Context, name string, file io.Reader, contentType string) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return s.publicPrefix + "/" + name, nil
}

func (s *DiskStorage) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}

	return nil
}
