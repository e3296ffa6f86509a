package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"galleryshare/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailShrinksLargeImage(t *testing.T) {
	svc := NewImageService(300, 1500)

	out, err := svc.Thumbnail(bytes.NewReader(encodePNG(t, 800, 600)))
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
	assert.Equal(t, 225, decoded.Bounds().Dy())
}

func TestThumbnailKeepsSmallImage(t *testing.T) {
	svc := NewImageService(300, 1500)

	out, err := svc.Thumbnail(bytes.NewReader(encodePNG(t, 120, 80)))
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	svc := NewImageService(300, 1500)

	_, err := svc.Thumbnail(strings.NewReader("this is not an image"))
	assert.Error(t, err)
}

func TestGenerateDerivatives(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "files/orig.png", bytes.NewReader(encodePNG(t, 800, 600)))
	require.NoError(t, err)

	svc := NewImageService(300, 1500)
	hasThumb, hasPreview, err := svc.GenerateDerivatives(ctx, store, "files/orig.png", "thumbnails/x.jpg", "previews/x.jpg")
	require.NoError(t, err)
	assert.True(t, hasThumb)
	assert.True(t, hasPreview)

	r, err := store.Open(ctx, "thumbnails/x.jpg")
	require.NoError(t, err)
	defer r.Close()
	decoded, err := jpeg.Decode(r)
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
}

func TestGenerateDerivativesCorruptOriginal(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "files/bad.jpg", strings.NewReader("garbage"))
	require.NoError(t, err)

	svc := NewImageService(300, 1500)
	hasThumb, hasPreview, err := svc.GenerateDerivatives(ctx, store, "files/bad.jpg", "thumbnails/y.jpg", "previews/y.jpg")
	assert.Error(t, err)
	assert.False(t, hasThumb)
	assert.False(t, hasPreview)
}
