package boxfit

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"
)

// step is one progressive downsampling iteration.
type step struct {
	Width  int
	Height int
	// Half is set when both dimensions were exactly halved, as opposed to
	// clamped to the target. Only these results are cacheable.
	Half bool
}

// halvingSteps lists the sizes visited when reducing width x height to
// targetW x targetH by repeated halving. Each dimension is halved
// (rounding down) while it exceeds its target and is clamped to the
// target if halving undershoots. The sequence depends only on the source
// size and the target, never on the box.
func halvingSteps(width, height, targetW, targetH int) []step {
	var steps []step
	for {
		widthReduced, widthIsHalf := false, false
		if width > targetW {
			width /= 2
			widthReduced, widthIsHalf = true, true
			if width < targetW {
				width = targetW
				widthIsHalf = false
			}
		}

		heightReduced, heightIsHalf := false, false
		if height > targetH {
			height /= 2
			heightReduced, heightIsHalf = true, true
			if height < targetH {
				height = targetH
				heightIsHalf = false
			}
		}

		if !widthReduced && !heightReduced {
			return steps
		}
		steps = append(steps, step{Width: width, Height: height, Half: widthIsHalf && heightIsHalf})
	}
}

// downsampleCache holds exact-half intermediates produced from one source
// during one batch, keyed by size.
//
// It is safe for concurrent use: lookups share a read lock and stores are
// insert-if-absent. Stored images are never modified after insertion;
// Get hands out copies so results never alias cache entries.
type downsampleCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

func newDownsampleCache() *downsampleCache {
	return &downsampleCache{
		images: make(map[string]*image.NRGBA),
	}
}

// cacheKey formats a size as "{width}x{height}".
func cacheKey(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// Get returns a copy of the cached image of the given size.
func (c *downsampleCache) Get(width, height int) (*image.NRGBA, bool) {
	c.mu.RLock()
	img, ok := c.images[cacheKey(width, height)]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return imaging.Clone(img), true
}

// Put stores img unless an entry of that size exists. It reports whether
// img was stored.
func (c *downsampleCache) Put(img *image.NRGBA) bool {
	key := cacheKey(img.Bounds().Dx(), img.Bounds().Dy())

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[key]; ok {
		return false
	}
	c.images[key] = img
	return true
}

// Len returns the number of cached sizes.
func (c *downsampleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Release drops every entry.
func (c *downsampleCache) Release() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// downsample reduces img to targetW x targetH by box-filtered halving,
// adopting cached intermediates where available and caching every exact
// half it computes. Dimensions already at or below target are untouched.
func downsample(engine Engine, logger *slog.Logger, img *image.NRGBA, targetW, targetH int, cache *downsampleCache) (*image.NRGBA, error) {
	current := img
	for _, s := range halvingSteps(img.Bounds().Dx(), img.Bounds().Dy(), targetW, targetH) {
		if cached, ok := cache.Get(s.Width, s.Height); ok {
			logger.Debug("downsample cache hit", slog.String("size", cacheKey(s.Width, s.Height)))
			current = cached
			continue
		}

		next, err := engine.Resize(current, s.Width, s.Height, FilterBox, false)
		if err != nil {
			return nil, fmt.Errorf("%w: downsample to %s: %w", ErrProcessing, cacheKey(s.Width, s.Height), err)
		}
		current = next

		if s.Half && cache.Put(current) {
			logger.Debug("downsample cache store", slog.String("size", cacheKey(s.Width, s.Height)))
		}
	}
	return current, nil
}

// upsample enlarges img to targetW x targetH in one cubic step when
// either dimension is short of its target. Otherwise img is returned.
func upsample(engine Engine, img *image.NRGBA, targetW, targetH int, bestfit bool) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w >= targetW && h >= targetH {
		return img, nil
	}

	out, err := engine.Resize(img, targetW, targetH, FilterCubic, bestfit)
	if err != nil {
		return nil, fmt.Errorf("%w: upsample to %s: %w", ErrProcessing, cacheKey(targetW, targetH), err)
	}
	return out, nil
}
