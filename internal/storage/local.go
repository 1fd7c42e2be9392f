package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// LocalPhotoStore keeps photos in a directory on local disk
type LocalPhotoStore struct {
	dir    string
	logger *logrus.Logger
}

// NewLocalPhotoStore creates the directory if needed and returns a store writing into it
func NewLocalPhotoStore(dir string, logger *logrus.Logger) (*LocalPhotoStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	if dir == "" {
		return nil, fmt.Errorf("upload directory is required for the local photo store")
	}

	dir = filepath.Clean(dir)
	if err := checkReferenceRoom(filepath.ToSlash(dir) + "/"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalPhotoStore{
		dir:    dir,
		logger: logger,
	}, nil
}

// Store writes data under a fresh name and returns its path relative to the working directory
func (s *LocalPhotoStore) Store(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPhoto
	}

	name, err := objectName(filename)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.dir, name)
	reference := filepath.ToSlash(fullPath)
	if len(reference) > MaxReferenceLength {
		return "", ErrReferenceTooLong
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"reference": reference,
		"size":      len(data),
	}).Debug("Stored photo on local disk")

	return reference, nil
}

// Remove deletes a photo previously returned by Store
func (s *LocalPhotoStore) Remove(ctx context.Context, reference string) error {
	fullPath := filepath.Clean(filepath.FromSlash(reference))
	rel, err := filepath.Rel(s.dir, fullPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ErrForeignReference
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}
