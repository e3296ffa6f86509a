package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"galleryshare/services/storage"

	"github.com/disintegration/imaging"
)

// ImageService produces the JPEG derivatives (thumbnail and preview) for
// image uploads. Both fit within a square of the configured max dimension,
// preserving aspect ratio; images already smaller are left at their size.
type ImageService struct {
	thumbnailMaxPx int
	previewMaxPx   int
}

func NewImageService(thumbnailMaxPx, previewMaxPx int) *ImageService {
	return &ImageService{thumbnailMaxPx: thumbnailMaxPx, previewMaxPx: previewMaxPx}
}

// Thumbnail renders the small derivative of the image read from r.
func (s *ImageService) Thumbnail(r io.Reader) ([]byte, error) {
	return s.resizeJPEG(r, s.thumbnailMaxPx, 85)
}

// Preview renders the large derivative of the image read from r.
func (s *ImageService) Preview(r io.Reader) ([]byte, error) {
	return s.resizeJPEG(r, s.previewMaxPx, 90)
}

func (s *ImageService) resizeJPEG(r io.Reader, maxPx, quality int) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxPx || bounds.Dy() > maxPx {
		img = imaging.Fit(img, maxPx, maxPx, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode derivative: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateDerivatives reads the stored original back and writes both
// derivatives. Returns which of the two were written; a corrupt image is
// reported via error but must not fail the upload that triggered it.
func (s *ImageService) GenerateDerivatives(ctx context.Context, store storage.BlobStore, originalKey, thumbKey, previewKey string) (hasThumb, hasPreview bool, err error) {
	thumb, terr := s.derive(ctx, store, originalKey, s.Thumbnail)
	if terr == nil {
		if _, perr := store.Put(ctx, thumbKey, bytes.NewReader(thumb)); perr == nil {
			hasThumb = true
		} else {
			terr = perr
		}
	}

	preview, verr := s.derive(ctx, store, originalKey, s.Preview)
	if verr == nil {
		if _, perr := store.Put(ctx, previewKey, bytes.NewReader(preview)); perr == nil {
			hasPreview = true
		} else {
			verr = perr
		}
	}

	if terr != nil {
		return hasThumb, hasPreview, terr
	}
	return hasThumb, hasPreview, verr
}

func (s *ImageService) derive(ctx context.Context, store storage.BlobStore, key string, render func(io.Reader) ([]byte, error)) ([]byte, error) {
	r, err := store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return render(r)
}
