package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecode is returned when image data cannot be read or decoded.
var ErrDecode = errors.New("imaging: cannot decode image")

// OrientationUnspecified is reported for images without an EXIF orientation tag.
const OrientationUnspecified = 0

// Decoded is the result of decoding an image: its pixels and the raw EXIF
// orientation tag (1-8, or OrientationUnspecified).
//
// The orientation is NOT applied to the pixels. Callers that need an
// upright image must rotate it themselves.
type Decoded struct {
	// Image holds the decoded pixels, always converted to NRGBA.
	Image *image.NRGBA

	// Format is the name reported by the registered decoder ("jpeg",
	// "png", "webp", ...).
	Format string

	// Orientation is the EXIF orientation tag value.
	Orientation int
}

// Decode reads all of r and decodes it as an image.
//
// The standard library and golang.org/x/image decoders are tried first.
// WebP data those decoders reject (for example animated or extended
// headers) falls back to the libwebp-backed decoder.
//
// # Errors
//
//   - Returns an error wrapping ErrDecode if r cannot be read
//   - Returns an error wrapping ErrDecode if no decoder accepts the data
func Decode(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image data: %v", ErrDecode, err)
	}
	return decodeBytes(data)
}

// Open decodes the image file at path.
//
// A missing or unreadable file is reported as ErrDecode, the same as
// corrupt contents.
func Open(path string) (*Decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %v", ErrDecode, err)
	}
	return decodeBytes(data)
}

func decodeBytes(data []byte) (*Decoded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Fallback: explicit WebP decode
		webpImg, webpErr := webp.Decode(bytes.NewReader(data))
		if webpErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		img, format = webpImg, "webp"
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}

	return &Decoded{
		Image:       imaging.Clone(img),
		Format:      format,
		Orientation: readOrientation(bytes.NewReader(data)),
	}, nil
}

// readOrientation returns the EXIF orientation tag found in r. Images
// without EXIF, or with EXIF that cannot be parsed, report
// OrientationUnspecified rather than an error.
func readOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return OrientationUnspecified
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationUnspecified
	}
	orient, err := tag.Int(0)
	if err != nil || orient < 1 || orient > 8 {
		return OrientationUnspecified
	}
	return orient
}
