package boxfit

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	imgengine "github.com/ironsheep/image-boxfit/internal/imaging"
)

// Orientation is the EXIF orientation tag of a raster.
type Orientation int

// EXIF orientation values. The names describe where the stored first row
// and first column end up, as in the TIFF specification.
const (
	OrientationUnspecified Orientation = 0
	OrientationTopLeft     Orientation = 1
	OrientationTopRight    Orientation = 2
	OrientationBottomRight Orientation = 3
	OrientationBottomLeft  Orientation = 4
	OrientationLeftTop     Orientation = 5
	OrientationRightTop    Orientation = 6
	OrientationRightBottom Orientation = 7
	OrientationLeftBottom  Orientation = 8
)

// Raster is a decoded image together with its orientation tag.
//
// Functions in this package never modify a Raster they are given. Every
// result is a newly allocated Raster owned by the caller.
type Raster struct {
	Image       *image.NRGBA
	Orientation Orientation
}

// NewRaster copies img into a new Raster with the given orientation.
func NewRaster(img image.Image, orientation Orientation) *Raster {
	return &Raster{
		Image:       imaging.Clone(img),
		Orientation: orientation,
	}
}

// Width returns the stored pixel width, before any orientation is applied.
func (r *Raster) Width() int {
	return r.Image.Bounds().Dx()
}

// Height returns the stored pixel height, before any orientation is applied.
func (r *Raster) Height() int {
	return r.Image.Bounds().Dy()
}

// Clone returns an independent copy of r.
func (r *Raster) Clone() *Raster {
	return &Raster{
		Image:       imaging.Clone(r.Image),
		Orientation: r.Orientation,
	}
}

func (r *Raster) empty() bool {
	return r == nil || r.Image == nil || r.Image.Bounds().Empty()
}

// Decode reads an image from rd. The EXIF orientation tag, if any, is
// recorded on the Raster but not applied.
func Decode(rd io.Reader) (*Raster, error) {
	d, err := imgengine.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &Raster{Image: d.Image, Orientation: Orientation(d.Orientation)}, nil
}

// Open decodes the image file at path. A missing file is reported as
// ErrDecode.
func Open(path string) (*Raster, error) {
	d, err := imgengine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &Raster{Image: d.Image, Orientation: Orientation(d.Orientation)}, nil
}
