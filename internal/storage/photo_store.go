package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"

	// MaxReferenceLength is the size of the photo column references are stored in
	MaxReferenceLength = 255

	maxBaseName = 100
	// maxObjectName is the longest name objectName returns: uuid, "_", base name
	maxObjectName = 36 + 1 + maxBaseName
)

var (
	// ErrEmptyPhoto is returned when there are no bytes to store
	ErrEmptyPhoto = errors.New("photo is empty")
	// ErrInvalidFilename is returned when the client filename has no usable base name
	ErrInvalidFilename = errors.New("invalid photo filename")
	// ErrForeignReference is returned when asked to remove a reference another store issued
	ErrForeignReference = errors.New("reference does not belong to this store")
	// ErrReferenceTooLong is returned when a reference would not fit the photo column
	ErrReferenceTooLong = errors.New("photo reference exceeds 255 characters")
)

// PhotoStore persists uploaded photos and hands back a stable reference
type PhotoStore interface {
	Store(ctx context.Context, data []byte, filename string) (string, error)
	Remove(ctx context.Context, reference string) error
}

// Config selects and configures a PhotoStore backend
type Config struct {
	Backend  string
	LocalDir string
	Bucket   string
	Region   string
	Prefix   string
	Endpoint string

	AccessKeyID     string
	SecretAccessKey string
}

// New builds the PhotoStore selected by cfg.Backend
func New(ctx context.Context, cfg Config, logger *logrus.Logger) (PhotoStore, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalPhotoStore(cfg.LocalDir, logger)
	case BackendS3:
		return NewS3PhotoStore(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported photo store backend %q", cfg.Backend)
	}
}

// objectName returns a collision-free name for an upload, keeping only the
// base name of whatever path the client sent
func objectName(filename string) (string, error) {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", ErrInvalidFilename
	}
	if len(base) > maxBaseName {
		cut := len(base) - maxBaseName
		for cut < len(base) && !utf8.RuneStart(base[cut]) {
			cut++
		}
		base = base[cut:]
	}
	return uuid.NewString() + "_" + base, nil
}

// checkReferenceRoom fails when the longest reference a store could issue
// under root would not fit the photo column
func checkReferenceRoom(root string) error {
	if longest := len(root) + maxObjectName; longest > MaxReferenceLength {
		return fmt.Errorf("%w: %q leaves room for %d characters, need %d",
			ErrReferenceTooLong, root, MaxReferenceLength-len(root), maxObjectName)
	}
	return nil
}
