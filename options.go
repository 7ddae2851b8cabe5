package boxfit

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	imgengine "github.com/ironsheep/image-boxfit/internal/imaging"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultColor       = "white"
	DefaultMaxWidth    = 10000
	DefaultMaxHeight   = 10000
	DefaultBlurValue   = 15.0
	DefaultConcurrency = 1
)

// ColorBlur as Options.Color selects a blurred backdrop, the same as
// setting BlurBackground.
const ColorBlur = "blur"

// Options controls how a source is fitted into its boxes.
//
// The zero value is usable: empty or zero fields take the package
// defaults. Negative numbers are rejected.
type Options struct {
	// Color fills the space around the fitted image. Any SVG color name,
	// "#RGB", "#RRGGBB", "transparent" or "blur". Default "white".
	Color string `json:"color"`

	// Upsize enlarges sources smaller than the box. When false a small
	// source is centered at its native size.
	Upsize bool `json:"upsize"`

	// Bestfit is passed to the enlargement step; see Engine.Resize.
	Bestfit bool `json:"bestfit"`

	// MaxWidth and MaxHeight bound the accepted box sizes. Default 10000.
	MaxWidth  int `json:"maxWidth"`
	MaxHeight int `json:"maxHeight"`

	// BlurBackground fills the box with a blurred, stretched copy of the
	// source instead of Color.
	BlurBackground bool `json:"blurBackground"`

	// BlurValue is the Gaussian radius of the blurred backdrop. Zero
	// selects the default of 15; a backdrop without blur is not offered.
	BlurValue float64 `json:"blurValue"`

	// Concurrency is the number of boxes processed at once by
	// ResizeMulti. Default 1 (sequential, widest box first).
	Concurrency int `json:"concurrency"`
}

// DefaultOptions returns Options with every default filled in.
func DefaultOptions() Options {
	return Options{
		Color:       DefaultColor,
		MaxWidth:    DefaultMaxWidth,
		MaxHeight:   DefaultMaxHeight,
		BlurValue:   DefaultBlurValue,
		Concurrency: DefaultConcurrency,
	}
}

// LoadOptions reads Options from a JSON file. Fields missing from the
// file keep their defaults. The result is validated.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file: %w", err)
	}

	opts := DefaultOptions()
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: failed to parse options file: %w", ErrInvalidArgument, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks that every option is usable.
func (o Options) Validate() error {
	_, err := o.resolve()
	return err
}

// settings are Options with defaults applied and the color parsed.
type settings struct {
	fill        color.NRGBA
	blur        bool
	upsize      bool
	bestfit     bool
	maxWidth    int
	maxHeight   int
	blurValue   float64
	concurrency int
}

func (o Options) resolve() (settings, error) {
	s := settings{
		upsize:      o.Upsize,
		bestfit:     o.Bestfit,
		blur:        o.BlurBackground,
		maxWidth:    orDefault(o.MaxWidth, DefaultMaxWidth),
		maxHeight:   orDefault(o.MaxHeight, DefaultMaxHeight),
		concurrency: orDefault(o.Concurrency, DefaultConcurrency),
		blurValue:   o.BlurValue,
	}

	if o.MaxWidth < 0 {
		return settings{}, fmt.Errorf("%w: maxWidth %d is negative", ErrInvalidArgument, o.MaxWidth)
	}
	if o.MaxHeight < 0 {
		return settings{}, fmt.Errorf("%w: maxHeight %d is negative", ErrInvalidArgument, o.MaxHeight)
	}
	if o.Concurrency < 0 {
		return settings{}, fmt.Errorf("%w: concurrency %d is negative", ErrInvalidArgument, o.Concurrency)
	}

	if s.blurValue == 0 {
		s.blurValue = DefaultBlurValue
	}
	if s.blurValue < 0 || math.IsNaN(s.blurValue) || math.IsInf(s.blurValue, 0) {
		return settings{}, fmt.Errorf("%w: blurValue %v must be finite and not negative", ErrInvalidArgument, o.BlurValue)
	}

	name := o.Color
	if strings.TrimSpace(name) == "" {
		name = DefaultColor
	}
	if strings.EqualFold(strings.TrimSpace(name), ColorBlur) {
		s.blur = true
		return s, nil
	}
	fill, err := imgengine.ParseColor(name)
	if err != nil {
		return settings{}, fmt.Errorf("%w: color: %w", ErrInvalidArgument, err)
	}
	s.fill = fill
	return s, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// BoxSpec is one requested output size.
type BoxSpec struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Key    string `json:"key"`

	// Path is the destination file, used only by ResizeMultiWrite.
	Path string `json:"path,omitempty"`
}

func (b BoxSpec) validate(s settings) error {
	if b.Width <= 0 || b.Width > s.maxWidth {
		return fmt.Errorf("%w: box %q width %d not in (0, %d]", ErrInvalidArgument, b.Key, b.Width, s.maxWidth)
	}
	if b.Height <= 0 || b.Height > s.maxHeight {
		return fmt.Errorf("%w: box %q height %d not in (0, %d]", ErrInvalidArgument, b.Key, b.Height, s.maxHeight)
	}
	return nil
}

func validateBoxes(boxes []BoxSpec, s settings) error {
	if len(boxes) == 0 {
		return fmt.Errorf("%w: no boxes requested", ErrInvalidArgument)
	}
	seen := make(map[string]bool, len(boxes))
	for _, b := range boxes {
		if err := b.validate(s); err != nil {
			return err
		}
		if seen[b.Key] {
			return fmt.Errorf("%w: duplicate box key %q", ErrInvalidArgument, b.Key)
		}
		seen[b.Key] = true
	}
	return nil
}
