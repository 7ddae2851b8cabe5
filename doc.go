// Package boxfit fits a source image into one or more bounding boxes.
//
// The source keeps its aspect ratio and is centered in each box. The space
// around it is filled with a solid color, a blurred copy of the source, or
// transparency. Every result is exactly the requested box size.
//
// # Example Usage
//
//	src, err := boxfit.Open("photo.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	thumbs, err := boxfit.ResizeMulti(src, []boxfit.BoxSpec{
//	    {Width: 1024, Height: 768, Key: "large"},
//	    {Width: 160, Height: 160, Key: "small"},
//	}, boxfit.Options{Color: "black"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = boxfit.Write(thumbs["small"], "out/small.jpg", boxfit.WriteOptions{})
//
// # Algorithm
//
// For each box the source is first rotated upright according to its EXIF
// orientation. Plan then decides the scaled size and the centering
// offset. Downsampling is progressive: each dimension is halved with a
// box filter until the next halving would pass the target, and the last
// step lands exactly on it. A source smaller than the box is only
// enlarged when Options.Upsize is set, in one cubic step.
//
// # Batches
//
// ResizeMulti processes boxes widest first. Intermediates produced by an
// exact halving of both dimensions depend only on the source size, so
// they are cached for the duration of the call and reused by later,
// smaller boxes. The cache is dropped when the call returns.
//
// # Error Handling
//
// Errors wrap ErrInvalidArgument, ErrProcessing or ErrDecode. Invalid
// options and boxes are reported before any pixel work starts. A failure
// on any box fails the whole batch; partial results are never returned.
package boxfit
