package boxfit

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Resizer fits sources into boxes using an Engine.
//
// A Resizer holds no per-call state and is safe for concurrent use.
type Resizer struct {
	engine Engine
	logger *slog.Logger
}

// ResizerOption configures a Resizer.
type ResizerOption func(*Resizer)

// WithEngine replaces the default raster engine.
func WithEngine(engine Engine) ResizerOption {
	return func(r *Resizer) {
		r.engine = engine
	}
}

// WithLogger sets the logger for debug records. The default logger writes
// to stderr at the level named by BOXFIT_LOG_LEVEL.
func WithLogger(logger *slog.Logger) ResizerOption {
	return func(r *Resizer) {
		r.logger = logger
	}
}

// NewResizer creates a Resizer with the default engine and logger unless
// overridden by opts.
func NewResizer(opts ...ResizerOption) *Resizer {
	r := &Resizer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = DefaultEngine()
	}
	if r.logger == nil {
		r.logger = newDefaultLogger()
	}
	return r
}

var defaultResizer = sync.OnceValue(func() *Resizer {
	return NewResizer()
})

// Resize fits src into one boxW x boxH box using the default Resizer.
func Resize(src *Raster, boxW, boxH int, opts Options) (*Raster, error) {
	return defaultResizer().Resize(src, boxW, boxH, opts)
}

// ResizeMulti fits src into every box using the default Resizer.
func ResizeMulti(src *Raster, boxes []BoxSpec, opts Options) (map[string]*Raster, error) {
	return defaultResizer().ResizeMulti(src, boxes, opts)
}

// Resize fits src into a single boxW x boxH box. It is ResizeMulti with
// one box.
func (r *Resizer) Resize(src *Raster, boxW, boxH int, opts Options) (*Raster, error) {
	results, err := r.ResizeMulti(src, []BoxSpec{{Width: boxW, Height: boxH}}, opts)
	if err != nil {
		return nil, err
	}
	return results[""], nil
}

// ResizeMulti fits src into each of boxes and returns the results keyed
// by BoxSpec.Key. Every result is exactly its box size.
//
// All options and boxes are validated before any pixel work; a bad value
// returns ErrInvalidArgument. Boxes are processed widest first so that
// the halving intermediates computed for large boxes are reused by
// smaller ones. Any engine failure aborts the batch with ErrProcessing
// and no results. src is never modified.
func (r *Resizer) ResizeMulti(src *Raster, boxes []BoxSpec, opts Options) (map[string]*Raster, error) {
	var mu sync.Mutex
	results := make(map[string]*Raster, len(boxes))

	err := r.run(src, boxes, opts, func(b BoxSpec, out *Raster) error {
		mu.Lock()
		results[b.Key] = out
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// run validates the request, then resizes each box and hands the result
// to emit. emit may be called from several goroutines when
// Options.Concurrency is above one.
func (r *Resizer) run(src *Raster, boxes []BoxSpec, opts Options, emit func(BoxSpec, *Raster) error) error {
	s, err := opts.resolve()
	if err != nil {
		return err
	}
	if src.empty() {
		return fmt.Errorf("%w: source image is empty", ErrInvalidArgument)
	}
	if err := validateBoxes(boxes, s); err != nil {
		return err
	}

	upright, err := normalize(r.engine, src)
	if err != nil {
		return err
	}

	cache := newDownsampleCache()
	defer func() {
		r.logger.Debug("releasing downsample cache", slog.Int("entries", cache.Len()))
		cache.Release()
	}()

	ordered := widestFirst(boxes)
	r.logger.Debug("resizing batch",
		slog.Int("boxes", len(ordered)),
		slog.Group("source", "x", upright.Width(), "y", upright.Height()),
		slog.Int("concurrency", s.concurrency),
	)

	if s.concurrency <= 1 || len(ordered) == 1 {
		for _, b := range ordered {
			out, err := r.resizeBox(upright.Image, b, s, cache)
			if err != nil {
				return err
			}
			if err := emit(b, out); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(s.concurrency)
	for _, b := range ordered {
		b := b
		g.Go(func() error {
			// A failed box stops boxes that have not started yet.
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := r.resizeBox(upright.Image, b, s, cache)
			if err != nil {
				return err
			}
			return emit(b, out)
		})
	}
	return g.Wait()
}

// resizeBox produces the result for one box from the upright source.
func (r *Resizer) resizeBox(source *image.NRGBA, b BoxSpec, s settings, cache *downsampleCache) (*Raster, error) {
	g := Plan(source.Bounds().Dx(), source.Bounds().Dy(), b.Width, b.Height, s.upsize)
	r.logger.Debug("fitting box",
		slog.String("key", b.Key),
		slog.Group("box", "x", b.Width, "y", b.Height),
		slog.Group("target", "x", g.TargetWidth, "y", g.TargetHeight),
		slog.Group("offset", "x", g.OffsetX, "y", g.OffsetY),
	)

	fg, err := downsample(r.engine, r.logger, source, g.TargetWidth, g.TargetHeight, cache)
	if err != nil {
		return nil, err
	}

	if s.upsize {
		fg, err = upsample(r.engine, fg, g.TargetWidth, g.TargetHeight, s.bestfit)
		if err != nil {
			return nil, err
		}
	}

	out, err := place(r.engine, source, fg, s, b.Width, b.Height, g)
	if err != nil {
		return nil, err
	}

	// The upright source is shared by every box in the batch.
	if out == source {
		out = imaging.Clone(out)
	}
	return &Raster{Image: out, Orientation: OrientationUnspecified}, nil
}

// widestFirst returns a copy of boxes sorted by width, largest first.
// Boxes of equal width keep their order.
func widestFirst(boxes []BoxSpec) []BoxSpec {
	ordered := make([]BoxSpec, len(boxes))
	copy(ordered, boxes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Width > ordered[j].Width
	})
	return ordered
}
