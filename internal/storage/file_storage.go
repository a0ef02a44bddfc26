package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PhotoStore keeps uploaded job photos on the local filesystem, keyed
// by draft session. Each upload gets a stable reference token usable to
// rebuild a serving URL later.
type PhotoStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewPhotoStore creates a photo store rooted at baseDir
func NewPhotoStore(baseDir string, logger *zap.Logger) (*PhotoStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &PhotoStore{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Save stores an upload for the given draft session and returns its
// reference. The reference is draftUID/randomUUID.ext, opaque to
// callers but stable for the life of the file.
func (s *PhotoStore) Save(draftUID, originalName string, content io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	ref := filepath.Join(draftUID, uuid.NewString()+ext)
	fullPath := filepath.Join(s.baseDir, ref)

	if err := s.validatePath(fullPath); err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create upload directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		s.logger.Error("Failed to create upload file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, content)
	if err != nil {
		return "", 0, fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Debug("Photo stored",
		zap.String("ref", ref),
		zap.Int64("size", size))

	return ref, size, nil
}

// Open returns a reader for a previously saved reference
func (s *PhotoStore) Open(ref string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.baseDir, ref)
	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo %s: %w", ref, err)
	}
	return file, nil
}

// validatePath rejects references that escape the base directory
func (s *PhotoStore) validatePath(fullPath string) error {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(absPath, absBase+string(os.PathSeparator)) {
		return fmt.Errorf("path escapes storage root: %s", fullPath)
	}
	return nil
}
