package storage

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// ThumbnailCacheFolder is the folder name where generated thumbnails are
// stored, relative to the storage root.
const ThumbnailCacheFolder = ".thumbnail_cache"

// SupportedThumbnailMimeTypes lists the image types a thumbnail can be
// generated for.
var SupportedThumbnailMimeTypes = []string{
	"image/png",
	"image/jpeg",
}

// Thumbnailer produces bounded-size JPEG thumbnails from image blobs. A
// weighted semaphore limits concurrent generation to prevent memory
// exhaustion.
type Thumbnailer struct {
	storage  *LocalStorage
	sem      *semaphore.Weighted
	maxWidth int
}

// NewThumbnailer creates a Thumbnailer backed by storage with up to three
// concurrent generations.
func NewThumbnailer(storage *LocalStorage) *Thumbnailer {
	return &Thumbnailer{
		storage:  storage,
		sem:      semaphore.NewWeighted(3),
		maxWidth: 720,
	}
}

// SupportsThumbnail reports whether a thumbnail can be generated for the
// given mime type.
func SupportsThumbnail(mimeType string) bool {
	for _, t := range SupportedThumbnailMimeTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// Generate decodes blob, scales it down to the bounded width preserving
// aspect ratio, caches the result under ThumbnailCacheFolder keyed by
// cacheKey, and returns the thumbnail bytes. A cached thumbnail is returned
// without regeneration.
func (t *Thumbnailer) Generate(ctx context.Context, cacheKey string, blob []byte) ([]byte, error) {
	cachePath := ThumbnailCacheFolder + "/" + cacheKey
	if cached, err := t.storage.Read(cachePath); err == nil {
		return cached, nil
	}

	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "failed to acquire thumbnail slot")
	}
	defer t.sem.Release(1)

	img, err := imaging.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	thumbnail := t.scale(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, errors.Wrap(err, "failed to encode thumbnail")
	}
	if err := t.storage.Put(ctx, cachePath, buf.Bytes(), "image/jpeg"); err != nil {
		return nil, errors.Wrap(err, "failed to cache thumbnail")
	}
	return buf.Bytes(), nil
}

// Resize scales blob so its longest side does not exceed size, returning
// JPEG bytes. Unlike Generate it does not cache; avatar uploads use it once
// at write time.
func (t *Thumbnailer) Resize(blob []byte, size int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	bounds := img.Bounds()
	if bounds.Dx() > size || bounds.Dy() > size {
		img = imaging.Fit(img, size, size, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, errors.Wrap(err, "failed to encode image")
	}
	return buf.Bytes(), nil
}

func (t *Thumbnailer) scale(img image.Image) image.Image {
	if img.Bounds().Dx() <= t.maxWidth {
		return img
	}
	return imaging.Resize(img, t.maxWidth, 0, imaging.Lanczos)
}
