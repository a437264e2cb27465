// Package imaging validates and downsizes uploaded photos before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	// Decoders for the accepted upload formats.
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const OUTPUT_CONTENT_TYPE = "image/jpeg"
const OUTPUT_EXTENSION = ".jpg"

// DEFAULT_MAX_PIXELS applies when a Compressor is built without a pixel limit.
const DEFAULT_MAX_PIXELS = 50_000_000

var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/webp"}

var (
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Validate sniffs the content type and checks it against the size limit.
func Validate(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit is %d MB", ErrFileTooLarge, len(data), maxBytes/(1024*1024))
	}
	contentType := http.DetectContentType(data)
	for _, allowed := range AllowedContentTypes {
		if contentType == allowed {
			return contentType, nil
		}
	}
	return "", fmt.Errorf("%w %q, allowed types: %v", ErrUnsupportedType, contentType, AllowedContentTypes)
}

// CheckPixels reads only the image header and rejects images whose decoded
// size would exceed maxPixels.
func CheckPixels(data []byte, maxPixels int64) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to read image header: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return fmt.Errorf("%w: %dx%d pixels, limit is %d", ErrFileTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// Compressor re-encodes images as JPEG, shrinking them to fit a bounding box.
type Compressor struct {
	MaxDimension       int
	ThumbnailDimension int
	Quality            int
	MaxPixels          int64
}

func NewCompressor(maxDimension, thumbnailDimension, quality int, maxPixels int64) *Compressor {
	if maxPixels <= 0 {
		maxPixels = DEFAULT_MAX_PIXELS
	}
	return &Compressor{
		MaxDimension:       maxDimension,
		ThumbnailDimension: thumbnailDimension,
		Quality:            quality,
		MaxPixels:          maxPixels,
	}
}

// Compress produces the full-size stored image.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	return c.encode(data, c.MaxDimension)
}

// Thumbnail produces the listing-size image.
func (c *Compressor) Thumbnail(data []byte) ([]byte, error) {
	return c.encode(data, c.ThumbnailDimension)
}

func (c *Compressor) encode(data []byte, maxDimension int) ([]byte, error) {
	if err := CheckPixels(data, c.MaxPixels); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := fit(src, maxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales src down so neither side exceeds maxDimension, flattening
// transparency onto white since JPEG has no alpha.
func fit(src image.Image, maxDimension int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDimension > 0 && (w > maxDimension || h > maxDimension) {
		if w >= h {
			h = max(1, h*maxDimension/w)
			w = maxDimension
		} else {
			w = max(1, w*maxDimension/h)
			h = maxDimension
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
