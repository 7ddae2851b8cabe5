package boxfit

import (
	"fmt"
	"image/color"
)

// rotation returns the clockwise angle that makes a raster with this tag
// upright. Only the three pure rotations are handled; mirrored tags and
// the default orientation report false.
func (o Orientation) rotation() (float64, bool) {
	switch o {
	case OrientationBottomRight:
		return 180, true
	case OrientationRightTop:
		return 90, true
	case OrientationLeftBottom:
		return -90, true
	default:
		return 0, false
	}
}

// normalize returns an upright copy of src with its orientation tag
// cleared. src is not modified.
func normalize(engine Engine, src *Raster) (*Raster, error) {
	deg, ok := src.Orientation.rotation()
	if !ok {
		return src.Clone(), nil
	}

	img, err := engine.Rotate(src.Image, deg, color.White)
	if err != nil {
		return nil, fmt.Errorf("%w: rotate %v: %w", ErrProcessing, deg, err)
	}
	return &Raster{Image: img, Orientation: OrientationUnspecified}, nil
}
