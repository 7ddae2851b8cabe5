package boxfit

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"testing"

	imgengine "github.com/ironsheep/image-boxfit/internal/imaging"
)

// solidRaster creates a width x height raster filled with c.
func solidRaster(width, height int, c color.Color) *Raster {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return &Raster{Image: img}
}

// patternImage creates an image with different colors in each quadrant
func patternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// gradientRaster creates a raster whose every pixel differs from its
// neighbours, so resampling differences show up in comparisons.
func gradientRaster(width, height int) *Raster {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: uint8((x * y) % 256),
				A: 255,
			})
		}
	}
	return &Raster{Image: img}
}

// encodeJPEGWithOrientation returns img as JPEG bytes carrying a minimal
// EXIF segment with the given orientation tag.
func encodeJPEGWithOrientation(t *testing.T, img image.Image, orientation int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	data := buf.Bytes()

	app1 := []byte{
		0xFF, 0xE1, 0x00, 0x22,
		'E', 'x', 'i', 'f', 0x00, 0x00,
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
		0x00, 0x01,
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, byte(orientation), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	out := make([]byte, 0, len(data)+len(app1))
	out = append(out, data[:2]...)
	out = append(out, app1...)
	out = append(out, data[2:]...)
	return out
}

// luminosity samples the HSL lightness at (x, y) or fails the test.
func luminosity(t *testing.T, r *Raster, x, y int) float64 {
	t.Helper()
	l, err := imgengine.Luminosity(r.Image, x, y)
	if err != nil {
		t.Fatalf("Luminosity(%d,%d) failed: %v", x, y, err)
	}
	return l
}

// countingEngine wraps the default engine and counts every call.
type countingEngine struct {
	inner Engine

	mu          sync.Mutex
	rotates     int
	resizes     map[Filter]int
	blurs       int
	canvases    int
	composites  int
	lastBestfit bool
	failResize  bool
}

func newCountingEngine() *countingEngine {
	return &countingEngine{
		inner:   DefaultEngine(),
		resizes: make(map[Filter]int),
	}
}

var errInjected = errors.New("injected engine failure")

func (e *countingEngine) Rotate(img *image.NRGBA, degrees float64, fill color.Color) (*image.NRGBA, error) {
	e.mu.Lock()
	e.rotates++
	e.mu.Unlock()
	return e.inner.Rotate(img, degrees, fill)
}

func (e *countingEngine) Resize(img *image.NRGBA, width, height int, filter Filter, bestfit bool) (*image.NRGBA, error) {
	e.mu.Lock()
	e.resizes[filter]++
	e.lastBestfit = bestfit
	fail := e.failResize
	e.mu.Unlock()
	if fail {
		return nil, errInjected
	}
	return e.inner.Resize(img, width, height, filter, bestfit)
}

func (e *countingEngine) Blur(img *image.NRGBA, width, height int, strength float64) (*image.NRGBA, error) {
	e.mu.Lock()
	e.blurs++
	e.mu.Unlock()
	return e.inner.Blur(img, width, height, strength)
}

func (e *countingEngine) NewCanvas(width, height int, fill color.Color) (*image.NRGBA, error) {
	e.mu.Lock()
	e.canvases++
	e.mu.Unlock()
	return e.inner.NewCanvas(width, height, fill)
}

func (e *countingEngine) Composite(canvas, fg *image.NRGBA, x, y int) (*image.NRGBA, error) {
	e.mu.Lock()
	e.composites++
	e.mu.Unlock()
	return e.inner.Composite(canvas, fg, x, y)
}

func (e *countingEngine) total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.rotates + e.blurs + e.canvases + e.composites
	for _, c := range e.resizes {
		n += c
	}
	return n
}

func (e *countingEngine) resizeCount(f Filter) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resizes[f]
}
