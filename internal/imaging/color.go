package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor converts a color specification to an NRGBA color.
//
// Accepted forms:
//   - SVG 1.1 color names, case-insensitive ("white", "black", "cornflowerblue")
//   - "transparent" or "none" for a fully transparent color
//   - Hex "#RGB" or "#RRGGBB"
//
// # Errors
//
// Returns an error for empty strings and anything not listed above.
func ParseColor(spec string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(spec))
	if name == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}

	switch name {
	case "transparent", "none":
		return color.NRGBA{}, nil
	}

	if c, ok := colornames.Map[name]; ok {
		return color.NRGBAModel.Convert(c).(color.NRGBA), nil
	}

	if strings.HasPrefix(name, "#") && (len(name) == 4 || len(name) == 7) {
		c, err := colorful.Hex(name)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", spec, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}

	return color.NRGBA{}, fmt.Errorf("unknown color %q", spec)
}

// Luminosity returns the HSL lightness (0-1) of the pixel at (x, y).
// Fully transparent pixels report zero.
//
// # Errors
//
// Returns an error if (x, y) lies outside the image bounds.
func Luminosity(img image.Image, x, y int) (float64, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return 0, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	c, _ := colorful.MakeColor(img.At(x, y))
	_, _, l := c.Hsl()
	return l, nil
}
