package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
)

// BlobStorage stores uploaded files and returns a public reference.
type BlobStorage interface {
	Store(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

// New selects the blob storage backend from config: S3 when a bucket is
// configured, the local uploads directory otherwise.
func New(cfg config.StorageConfig, logger *zap.Logger) (BlobStorage, error) {
	if cfg.S3Bucket != "" {
		return NewS3Storage(cfg, logger)
	}
	return NewLocalStorage(cfg, logger)
}

// randomKey builds a dated, unpredictable object key preserving the
// original file extension.
func randomKey(fileName string) string {
	d := time.Now()
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("thumbnails/%d/%d/%d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}

// LocalStorage writes files under the uploads directory, served statically
// at the configured public path.
type LocalStorage struct {
	dir        string
	publicPath string
	logger     *zap.Logger
}

// NewLocalStorage constructs the backend, creating the directory if needed.
func NewLocalStorage(cfg config.StorageConfig, logger *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStorage{dir: cfg.UploadsDir, publicPath: cfg.PublicPath, logger: logger}, nil
}

func (s *LocalStorage) Store(_ context.Context, fileName, _ string, data []byte) (string, error) {
	name := uuid.NewString() + filepath.Ext(fileName)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	s.logger.Debug("stored upload locally", zap.String("file", name))
	return path.Join(s.publicPath, name), nil
}
