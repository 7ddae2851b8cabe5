package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// ErrEngine is returned when a pixel operation cannot produce a result,
// for example because a requested dimension is not positive.
var ErrEngine = errors.New("imaging: operation failed")

// Downscale resizes img to exactly width x height with a box (area
// averaging) filter. A single call on a 2:1 size ratio is the 2x2 binning
// step used for progressive downsampling.
func Downscale(img image.Image, width, height int) (*image.NRGBA, error) {
	if err := checkSize("downscale", width, height); err != nil {
		return nil, err
	}
	return checkResult("downscale", imaging.Resize(img, width, height, imaging.Box), width, height)
}

// Upscale enlarges img to width x height with a Catmull-Rom cubic filter.
//
// With bestfit false the result is exactly width x height. With bestfit
// true the image is enlarged as far as possible while keeping its own
// aspect ratio, so one dimension may come out smaller than requested.
func Upscale(img image.Image, width, height int, bestfit bool) (*image.NRGBA, error) {
	if err := checkSize("upscale", width, height); err != nil {
		return nil, err
	}
	if bestfit {
		width, height = fitWithin(img.Bounds().Dx(), img.Bounds().Dy(), width, height)
	}
	return checkResult("upscale", imaging.Resize(img, width, height, imaging.CatmullRom), width, height)
}

// Backdrop stretches img to exactly width x height and applies a Gaussian
// blur of the given radius. The result is always fully opaque.
func Backdrop(img image.Image, width, height int, radius float64) (*image.NRGBA, error) {
	if err := checkSize("backdrop", width, height); err != nil {
		return nil, err
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: backdrop: invalid blur radius %v", ErrEngine, radius)
	}

	stretched := imaging.Resize(img, width, height, imaging.Linear)
	blurred := blur.Gaussian(stretched, radius)

	// bild's convolution does not keep alpha, force the backdrop opaque
	out := imaging.Clone(blurred)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return checkResult("backdrop", out, width, height)
}

// Rotate turns img clockwise by degrees, filling uncovered area with fill.
// Multiples of 90 degrees are lossless.
func Rotate(img image.Image, degrees float64, fill color.Color) (*image.NRGBA, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: rotate: empty image", ErrEngine)
	}
	// imaging.Rotate turns counter-clockwise.
	out := imaging.Rotate(img, -degrees, fill)
	if out.Bounds().Empty() {
		return nil, fmt.Errorf("%w: rotate: empty result", ErrEngine)
	}
	return out, nil
}

// Canvas allocates a width x height image filled with fill.
func Canvas(width, height int, fill color.Color) (*image.NRGBA, error) {
	if err := checkSize("canvas", width, height); err != nil {
		return nil, err
	}
	return checkResult("canvas", imaging.New(width, height, fill), width, height)
}

// Overlay draws fg over canvas with its top-left corner at (x, y) and
// returns the composited copy. The canvas itself is not modified.
//
// Blending is alpha-aware "over": transparent foreground pixels keep the
// canvas, opaque ones replace it.
func Overlay(canvas, fg image.Image, x, y int) (*image.NRGBA, error) {
	if canvas.Bounds().Empty() {
		return nil, fmt.Errorf("%w: overlay: empty canvas", ErrEngine)
	}
	return imaging.Overlay(canvas, fg, image.Pt(x, y), 1.0), nil
}

// fitWithin returns the largest size with the aspect ratio of srcW x srcH
// that fits inside maxW x maxH.
func fitWithin(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return maxW, maxH
	}
	srcAspect := float64(srcW) / float64(srcH)
	maxAspect := float64(maxW) / float64(maxH)

	var w, h int
	if srcAspect > maxAspect {
		w = maxW
		h = int(math.Round(float64(maxW) / srcAspect))
	} else {
		w = int(math.Round(float64(maxH) * srcAspect))
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func checkSize(op string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %s: invalid size %dx%d", ErrEngine, op, width, height)
	}
	return nil
}

func checkResult(op string, img *image.NRGBA, width, height int) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("%w: %s: got %dx%d, want %dx%d", ErrEngine, op, b.Dx(), b.Dy(), width, height)
	}
	return img, nil
}
