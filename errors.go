package boxfit

import "errors"

// Error kinds returned by the resizer. Every error from this package wraps
// exactly one of them; test with errors.Is.
var (
	// ErrInvalidArgument reports a bad option or box size. It is always
	// returned before any pixel work starts.
	ErrInvalidArgument = errors.New("boxfit: invalid argument")

	// ErrProcessing reports that a raster engine primitive failed. The
	// whole batch is aborted and no partial results are returned.
	ErrProcessing = errors.New("boxfit: processing failed")

	// ErrDecode reports a source that cannot be read or decoded.
	ErrDecode = errors.New("boxfit: cannot decode image")
)
