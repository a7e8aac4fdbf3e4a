// Package image provides utilities for locating, opening and decoding photos.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/shirtsort/internal/photo"
	"github.com/jmylchreest/shirtsort/internal/security"
)

// DefaultMaxBytes caps how much of a single photo is read before decoding.
const DefaultMaxBytes int64 = 64 << 20

// Decode reads at most maxBytes from r and decodes the image.
// Any format registered with the image package is accepted.
func Decode(r io.Reader, maxBytes int64) (image.Image, string, error) {
	img, format, err := image.Decode(security.NewLimitedReader(r, maxBytes))
	if err != nil {
		return nil, format, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, format, nil
}

// Load opens src and decodes it.
func Load(src photo.Source, maxBytes int64) (image.Image, error) {
	return LoadContext(context.Background(), src, maxBytes)
}

// LoadContext is Load with a context for sources that fetch over the network.
func LoadContext(ctx context.Context, src photo.Source, maxBytes int64) (image.Image, error) {
	rc, err := Open(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	img, _, err := Decode(rc, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return img, nil
}

// DecodeConfig returns the dimensions and format of an encoded image without
// decoding the pixel data.
func DecodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return cfg, format, nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}
	return slices.Contains(SupportedImageExtensions(), strings.ToLower(name[dot:]))
}
