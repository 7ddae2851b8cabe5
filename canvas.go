package boxfit

import (
	"fmt"
	"image"
)

// buildCanvas returns the boxW x boxH backdrop: a blurred, stretched copy
// of source when blurring is requested, otherwise a solid fill (which may
// be fully transparent).
func buildCanvas(engine Engine, source *image.NRGBA, s settings, boxW, boxH int) (*image.NRGBA, error) {
	if s.blur {
		canvas, err := engine.Blur(source, boxW, boxH, s.blurValue)
		if err != nil {
			return nil, fmt.Errorf("%w: blurred backdrop %s: %w", ErrProcessing, cacheKey(boxW, boxH), err)
		}
		return canvas, nil
	}

	canvas, err := engine.NewCanvas(boxW, boxH, s.fill)
	if err != nil {
		return nil, fmt.Errorf("%w: canvas %s: %w", ErrProcessing, cacheKey(boxW, boxH), err)
	}
	return canvas, nil
}

// place puts fg into a boxW x boxH result at the planned offset. A
// foreground that already fills the box is returned as is, without
// building a backdrop.
func place(engine Engine, source, fg *image.NRGBA, s settings, boxW, boxH int, g Geometry) (*image.NRGBA, error) {
	if fg.Bounds().Dx() == boxW && fg.Bounds().Dy() == boxH {
		return fg, nil
	}

	canvas, err := buildCanvas(engine, source, s, boxW, boxH)
	if err != nil {
		return nil, err
	}

	out, err := engine.Composite(canvas, fg, g.OffsetX, g.OffsetY)
	if err != nil {
		return nil, fmt.Errorf("%w: composite at (%d,%d): %w", ErrProcessing, g.OffsetX, g.OffsetY, err)
	}
	return out, nil
}
