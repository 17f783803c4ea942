// Package storage keeps uploaded images on local disk under a named bucket
// and serves them back at /storage/<bucket>/<object>.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const PublicPrefix = "/storage/"

const (
	PrefixProduct   = "product-"
	PrefixPromotion = "promo-"
)

var (
	ErrUnsupportedFile = errors.New("storage: unsupported file type")
	ErrFileTooLarge    = errors.New("storage: file too large")
	ErrEmptyFile       = errors.New("storage: empty file")
)

var allowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// Bucket is where form uploads end up.
type Bucket interface {
	Upload(ctx context.Context, upload PreparedUpload, r io.Reader) (string, error)
	PublicURL(objectName string) string
}

// PreparedUpload is a checked upload that has not touched the disk yet.
type PreparedUpload struct {
	ObjectName  string
	ContentType string
	Size        int64
}

// PrepareUpload validates the file metadata and derives the object name
// <prefix><uuid>.<ext>. It performs no I/O.
func PrepareUpload(filename, contentType string, size, maxBytes int64, prefix string) (PreparedUpload, error) {
	if size <= 0 {
		return PreparedUpload{}, ErrEmptyFile
	}
	if maxBytes > 0 && size > maxBytes {
		return PreparedUpload{}, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, maxBytes)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	expected, ok := allowedExtensions[ext]
	if !ok {
		return PreparedUpload{}, fmt.Errorf("%w: %q", ErrUnsupportedFile, filename)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" && contentType != expected {
		return PreparedUpload{}, fmt.Errorf("%w: %s does not match .%s", ErrUnsupportedFile, contentType, ext)
	}

	return PreparedUpload{
		ObjectName:  prefix + uuid.NewString() + "." + ext,
		ContentType: expected,
		Size:        size,
	}, nil
}

type LocalBucket struct {
	root     string
	name     string
	maxWidth int
}

func NewLocalBucket(uploadsDir, name string, maxWidth int) (*LocalBucket, error) {
	root := filepath.Join(uploadsDir, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating bucket directory %s: %w", root, err)
	}
	return &LocalBucket{root: root, name: name, maxWidth: maxWidth}, nil
}

// Upload decodes the image, bounds it to the bucket's maximum width and
// writes it under the prepared object name. Nothing is left on disk when
// it fails.
func (b *LocalBucket) Upload(ctx context.Context, upload PreparedUpload, r io.Reader) (string, error) {
	if upload.ObjectName == "" || upload.ObjectName != filepath.Base(upload.ObjectName) {
		return "", fmt.Errorf("%w: invalid object name %q", ErrUnsupportedFile, upload.ObjectName)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	if b.maxWidth > 0 && img.Bounds().Dx() > b.maxWidth {
		img = imaging.Resize(img, b.maxWidth, 0, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest := filepath.Join(b.root, upload.ObjectName)
	if err := imaging.Save(img, dest, imaging.JPEGQuality(90)); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("saving image: %w", err)
	}

	zap.S().Infow("LocalBucket.Upload: stored object",
		"bucket", b.name,
		"object", upload.ObjectName,
		"width", img.Bounds().Dx(),
	)
	return upload.ObjectName, nil
}

func (b *LocalBucket) PublicURL(objectName string) string {
	return path.Join(PublicPrefix, b.name, objectName)
}
