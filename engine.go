package boxfit

import (
	"fmt"
	"image"
	"image/color"

	imgengine "github.com/ironsheep/image-boxfit/internal/imaging"
)

// Filter selects the resampling kernel for Engine.Resize.
type Filter int

const (
	// FilterBox averages the covered source area. Used for every
	// downsampling step.
	FilterBox Filter = iota

	// FilterCubic is a smooth cubic kernel used for enlargement.
	FilterCubic
)

func (f Filter) String() string {
	switch f {
	case FilterBox:
		return "box"
	case FilterCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

// Engine is the set of pixel primitives the resizer is built on.
//
// Implementations must not modify their input images and must return a
// new image on success. Any returned error aborts the current batch and is
// reported to the caller wrapped in ErrProcessing.
type Engine interface {
	// Rotate turns img clockwise by degrees, filling exposed area with fill.
	Rotate(img *image.NRGBA, degrees float64, fill color.Color) (*image.NRGBA, error)

	// Resize scales img to width x height. With bestfit set, an
	// enlargement may keep img's own aspect ratio inside that size.
	Resize(img *image.NRGBA, width, height int, filter Filter, bestfit bool) (*image.NRGBA, error)

	// Blur stretches img to exactly width x height and blurs it with the
	// given strength.
	Blur(img *image.NRGBA, width, height int, strength float64) (*image.NRGBA, error)

	// NewCanvas allocates a width x height image filled with fill.
	NewCanvas(width, height int, fill color.Color) (*image.NRGBA, error)

	// Composite draws fg over canvas with its top-left corner at (x, y).
	Composite(canvas, fg *image.NRGBA, x, y int) (*image.NRGBA, error)
}

// DefaultEngine returns the Engine backed by internal/imaging.
func DefaultEngine() Engine {
	return imagingEngine{}
}

type imagingEngine struct{}

func (imagingEngine) Rotate(img *image.NRGBA, degrees float64, fill color.Color) (*image.NRGBA, error) {
	return imgengine.Rotate(img, degrees, fill)
}

func (imagingEngine) Resize(img *image.NRGBA, width, height int, filter Filter, bestfit bool) (*image.NRGBA, error) {
	switch filter {
	case FilterBox:
		return imgengine.Downscale(img, width, height)
	case FilterCubic:
		return imgengine.Upscale(img, width, height, bestfit)
	default:
		return nil, fmt.Errorf("unknown filter %v", filter)
	}
}

func (imagingEngine) Blur(img *image.NRGBA, width, height int, strength float64) (*image.NRGBA, error) {
	return imgengine.Backdrop(img, width, height, strength)
}

func (imagingEngine) NewCanvas(width, height int, fill color.Color) (*image.NRGBA, error) {
	return imgengine.Canvas(width, height, fill)
}

func (imagingEngine) Composite(canvas, fg *image.NRGBA, x, y int) (*image.NRGBA, error) {
	return imgengine.Overlay(canvas, fg, x, y)
}
