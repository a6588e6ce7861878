// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging re-encodes oversized uploaded images before they are
// forwarded to object storage: width capped at 1920px (never upscaled),
// baseline JPEG at quality 80. A failed re-encode never fails the
// upload; callers fall back to the original bytes.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// CompressThreshold is the original size above which images are
	// re-encoded (1 MiB).
	CompressThreshold = 1 << 20

	// maxWidth is the output width cap in pixels.
	maxWidth = 1920

	// quality is the JPEG quality for re-encoded images.
	quality = 80

	// maxImagePixels caps decoded size to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// Compress decodes the image, scales it down to at most maxWidth wide
// preserving aspect ratio, and re-encodes it as a quality-80 JPEG.
// Returns the new bytes and their content type. Any decode or encode
// failure is returned to the caller, who uploads the original instead.
func Compress(original []byte) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Scale down only; small images are re-encoded at original size.
	if width > maxWidth {
		ratio := float64(maxWidth) / float64(width)
		newHeight := int(float64(height) * ratio)
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// ShouldCompress reports whether an upload qualifies for re-encoding:
// an image body larger than the threshold.
func ShouldCompress(contentType string, size int64) bool {
	return size > CompressThreshold && len(contentType) > 6 && contentType[:6] == "image/"
}
