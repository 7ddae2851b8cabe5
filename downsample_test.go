package boxfit

import (
	"image/color"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHalvingSteps(t *testing.T) {
	tests := []struct {
		name                   string
		w, h, targetW, targetH int
		want                   []step
	}{
		{
			name: "halves then clamps",
			w:    100, h: 50, targetW: 10, targetH: 5,
			want: []step{
				{50, 25, true},
				{25, 12, true},
				{12, 6, true},
				{10, 5, false},
			},
		},
		{
			name: "clamps both dimensions",
			w:    100, h: 50, targetW: 20, targetH: 10,
			want: []step{
				{50, 25, true},
				{25, 12, true},
				{20, 10, false},
			},
		},
		{
			name: "already at target",
			w:    100, h: 50, targetW: 100, targetH: 50,
			want: nil,
		},
		{
			name: "below target",
			w:    100, h: 50, targetW: 400, targetH: 100,
			want: nil,
		},
		{
			name: "one dimension only",
			w:    100, h: 50, targetW: 60, targetH: 50,
			want: []step{{60, 50, false}},
		},
		{
			name: "half in one dimension is not cacheable",
			w:    400, h: 100, targetW: 100, targetH: 100,
			want: []step{
				{200, 100, false},
				{100, 100, false},
			},
		},
		{
			name: "exact halves all the way",
			w:    400, h: 200, targetW: 100, targetH: 50,
			want: []step{
				{200, 100, true},
				{100, 50, true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := halvingSteps(tt.w, tt.h, tt.targetW, tt.targetH)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("halvingSteps(%d,%d,%d,%d) = %v, want %v",
					tt.w, tt.h, tt.targetW, tt.targetH, got, tt.want)
			}
		})
	}
}

func TestDownsampleCache(t *testing.T) {
	cache := newDownsampleCache()
	img := solidRaster(20, 10, color.Black).Image

	if _, ok := cache.Get(20, 10); ok {
		t.Fatal("empty cache returned an entry")
	}
	if !cache.Put(img) {
		t.Fatal("first Put should store")
	}
	if cache.Put(solidRaster(20, 10, color.White).Image) {
		t.Error("second Put of the same size should be ignored")
	}

	got, ok := cache.Get(20, 10)
	if !ok {
		t.Fatal("Get missed a stored size")
	}
	if got == img {
		t.Error("Get should return a copy, not the stored image")
	}
	if got.NRGBAAt(0, 0) != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("cached pixel = %v, want the first stored image", got.NRGBAAt(0, 0))
	}

	// Modifying a copy must not reach the cache.
	got.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	again, _ := cache.Get(20, 10)
	if again.NRGBAAt(0, 0) != (color.NRGBA{0, 0, 0, 255}) {
		t.Error("cache entry changed after modifying a returned copy")
	}

	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
	cache.Release()
	if cache.Len() != 0 {
		t.Errorf("Len() after Release = %d, want 0", cache.Len())
	}
	if _, ok := cache.Get(20, 10); ok {
		t.Error("Get after Release should miss")
	}
}

func TestDownsampleCacheConcurrent(t *testing.T) {
	cache := newDownsampleCache()
	var wg sync.WaitGroup
	var mu sync.Mutex
	stored := 0

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cache.Put(solidRaster(8, 8, color.Black).Image) {
				mu.Lock()
				stored++
				mu.Unlock()
			}
			cache.Get(8, 8)
		}()
	}
	wg.Wait()

	if stored != 1 {
		t.Errorf("%d goroutines stored the same size, want exactly 1", stored)
	}
}

func TestDownsampleUsesCache(t *testing.T) {
	engine := newCountingEngine()
	cache := newDownsampleCache()
	src := solidRaster(400, 200, color.Black).Image

	out, err := downsample(engine, discardLogger(), src, 100, 50, cache)
	if err != nil {
		t.Fatalf("downsample failed: %v", err)
	}
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Fatalf("got %dx%d, want 100x50", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if n := engine.resizeCount(FilterBox); n != 2 {
		t.Errorf("first pass made %d box resizes, want 2", n)
	}
	if cache.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2", cache.Len())
	}

	// A smaller target walks the same halves and only computes the last step.
	out, err = downsample(engine, discardLogger(), src, 50, 25, cache)
	if err != nil {
		t.Fatalf("downsample failed: %v", err)
	}
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 25 {
		t.Fatalf("got %dx%d, want 50x25", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if n := engine.resizeCount(FilterBox); n != 3 {
		t.Errorf("after second pass %d box resizes, want 3", n)
	}
}

func TestDownsampleDoesNotCacheClampedSteps(t *testing.T) {
	engine := newCountingEngine()
	cache := newDownsampleCache()
	src := solidRaster(100, 50, color.Black).Image

	if _, err := downsample(engine, discardLogger(), src, 20, 10, cache); err != nil {
		t.Fatalf("downsample failed: %v", err)
	}
	// 50x25 and 25x12 are halves; 20x10 is clamped.
	if cache.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2", cache.Len())
	}
	if _, ok := cache.Get(20, 10); ok {
		t.Error("clamped step was cached")
	}
}

func TestDownsampleEngineFailure(t *testing.T) {
	engine := newCountingEngine()
	engine.failResize = true
	src := solidRaster(100, 50, color.Black).Image

	_, err := downsample(engine, discardLogger(), src, 10, 5, newDownsampleCache())
	if err == nil {
		t.Fatal("expected error from failing engine")
	}
}

func TestUpsample(t *testing.T) {
	engine := newCountingEngine()
	src := solidRaster(10, 5, color.Black).Image

	out, err := upsample(engine, src, 40, 20, false)
	if err != nil {
		t.Fatalf("upsample failed: %v", err)
	}
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 20 {
		t.Errorf("got %dx%d, want 40x20", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if n := engine.resizeCount(FilterCubic); n != 1 {
		t.Errorf("%d cubic resizes, want 1", n)
	}

	same, err := upsample(engine, src, 10, 5, false)
	if err != nil {
		t.Fatalf("upsample failed: %v", err)
	}
	if same != src {
		t.Error("upsample at target size should return its input")
	}
	if n := engine.resizeCount(FilterCubic); n != 1 {
		t.Errorf("no-op upsample called the engine (%d cubic resizes)", n)
	}
}
