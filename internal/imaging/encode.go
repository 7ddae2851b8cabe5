package imaging

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// FormatWebP is the format name handled by the libwebp encoder. All other
// names are resolved through imaging.FormatFromExtension.
const FormatWebP = "webp"

// NormalizeFormat maps a format or extension name ("jpg", ".JPEG", "tif")
// to the canonical name used by Encode.
//
// # Errors
//
// Returns an error for formats that have no encoder.
func NormalizeFormat(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if ext == FormatWebP {
		return FormatWebP, nil
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", fmt.Errorf("unsupported image format %q: %w", name, err)
	}
	return strings.ToLower(f.String()), nil
}

// Encode writes img to w in the given format.
//
// quality applies to JPEG (1-100) and lossy WebP output; other formats
// ignore it. The Go encoders never emit EXIF or other metadata blocks, so
// the output is always free of headers copied from the source.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	name, err := NormalizeFormat(format)
	if err != nil {
		return err
	}

	if name == FormatWebP {
		if err := webp.Encode(w, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	}

	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return nil
}
