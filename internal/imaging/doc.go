// Package imaging is the raster engine behind the box-fit resizer.
//
// It wraps the pixel-level primitives the resizer consumes: decoding with
// EXIF orientation lookup, box-filter downscaling, cubic upscaling,
// blurred backdrops, rotation, solid canvases, alpha compositing and
// encoding. Every function returns a freshly allocated *image.NRGBA and
// never modifies its inputs, so callers may share source images freely.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left
// corner. X increases rightward and Y increases downward.
//
// # Libraries
//
//   - github.com/disintegration/imaging: resampling, rotation, canvases,
//     compositing, JPEG/PNG/GIF/TIFF/BMP encoding
//   - github.com/anthonynsimon/bild/blur: Gaussian blur for backdrops
//   - github.com/rwcarlsen/goexif: EXIF orientation tags
//   - github.com/chai2010/webp and golang.org/x/image/webp: WebP support
//   - github.com/lucasb-eyer/go-colorful and golang.org/x/image/colornames:
//     color parsing and HSL sampling
//
// # Error Handling
//
// Decoding failures wrap ErrDecode. Pixel operations that cannot produce
// a result of the requested size wrap ErrEngine.
package imaging
