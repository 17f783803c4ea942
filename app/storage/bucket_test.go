package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareUpload(t *testing.T) {
	up, err := PrepareUpload("Banner.PNG", "image/png", 1024, 5<<20, PrefixPromotion)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.ObjectName, "promo-"))
	assert.True(t, strings.HasSuffix(up.ObjectName, ".png"))
	assert.Equal(t, "image/png", up.ContentType)

	other, err := PrepareUpload("Banner.PNG", "", 1024, 0, PrefixPromotion)
	require.NoError(t, err)
	assert.NotEqual(t, up.ObjectName, other.ObjectName)

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		want        error
	}{
		{"empty", "a.png", "image/png", 0, ErrEmptyFile},
		{"too large", "a.png", "image/png", 10 << 20, ErrFileTooLarge},
		{"bad extension", "a.exe", "", 10, ErrUnsupportedFile},
		{"mismatched type", "a.png", "image/jpeg", 10, ErrUnsupportedFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrepareUpload(tt.filename, tt.contentType, tt.size, 5<<20, PrefixProduct)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLocalBucketUpload(t *testing.T) {
	dir := t.TempDir()
	bucket, err := NewLocalBucket(dir, "products", 100)
	require.NoError(t, err)

	data := pngBytes(t, 400, 200)
	up, err := PrepareUpload("photo.png", "image/png", int64(len(data)), 0, PrefixProduct)
	require.NoError(t, err)

	name, err := bucket.Upload(context.Background(), up, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, up.ObjectName, name)
	assert.Equal(t, "/storage/products/"+name, bucket.PublicURL(name))

	f, err := os.Open(filepath.Join(dir, "products", name))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestLocalBucketUploadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	bucket, err := NewLocalBucket(dir, "products", 0)
	require.NoError(t, err)

	up := PreparedUpload{ObjectName: "product-x.png", ContentType: "image/png", Size: 4}
	_, err = bucket.Upload(context.Background(), up, strings.NewReader("nope"))
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "products", "product-x.png"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = bucket.Upload(context.Background(), PreparedUpload{ObjectName: "../escape.png"}, bytes.NewReader(pngBytes(t, 2, 2)))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
