package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LocalStore keeps files under a root directory, served elsewhere at baseURL.
type LocalStore struct {
	root    string
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

func NewLocalStore(root, baseURL string, logger *zap.Logger) *LocalStore {
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Upload(_ context.Context, f File, folder string) (string, error) {
	key := objectKey(folder, f.Name, s.now())
	full := filepath.Join(s.root, filepath.FromSlash(key))

	if err := s.validatePath(full); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating media directory: %w", err)
	}

	if err := os.WriteFile(full, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing media file: %w", err)
	}

	s.logger.Debug("media stored",
		zap.String("key", key),
		zap.String("content_type", f.contentType()),
		zap.Int("size", len(f.Data)))

	return s.baseURL + "/" + key, nil
}

func (s *LocalStore) UploadMultiple(ctx context.Context, files []File, folder string) ([]string, error) {
	return uploadAll(ctx, s, files, folder)
}

func (s *LocalStore) validatePath(full string) error {
	absPath, err := filepath.Abs(full)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return fmt.Errorf("resolving media root: %w", err)
	}

	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return fmt.Errorf("path escapes media root: %s", full)
	}

	return nil
}
