package boxfit

// Geometry is where a source lands inside a box: the size it is scaled
// to and the offset of its top-left corner.
type Geometry struct {
	TargetWidth  int
	TargetHeight int
	OffsetX      int
	OffsetY      int
}

// Plan computes the Geometry for fitting a sourceW x sourceH image into a
// boxW x boxH box.
//
// A source smaller than the box in both dimensions keeps its size unless
// upsize is set. Otherwise the source is scaled along the constraining
// axis; the other axis is truncated toward zero and centered. All sizes
// must be positive.
func Plan(sourceW, sourceH, boxW, boxH int, upsize bool) Geometry {
	if sourceW < boxW && sourceH < boxH && !upsize {
		return Geometry{
			TargetWidth:  sourceW,
			TargetHeight: sourceH,
			OffsetX:      (boxW - sourceW) / 2,
			OffsetY:      (boxH - sourceH) / 2,
		}
	}

	// ratio over 1 is horizontal, under 1 is vertical
	boxRatio := float64(boxW) / float64(boxH)
	sourceRatio := float64(sourceW) / float64(sourceH)

	// box is more vertical than the source
	if boxRatio < sourceRatio {
		h := atLeastOne(int(float64(boxW) / sourceRatio))
		return Geometry{
			TargetWidth:  boxW,
			TargetHeight: h,
			OffsetY:      (boxH - h) / 2,
		}
	}

	w := atLeastOne(int(float64(boxH) * sourceRatio))
	return Geometry{
		TargetWidth:  w,
		TargetHeight: boxH,
		OffsetX:      (boxW - w) / 2,
	}
}

// atLeastOne keeps extreme aspect ratios from truncating a side to zero.
func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
