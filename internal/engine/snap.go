package engine

import (
	"math"

	"github.com/piwi3910/blockbuilder/internal/model"
)

const (
	// SnapTolerance is the largest distance, in canvas units, over which a
	// dragged edge is pulled onto a neighbour's edge. It is inclusive.
	SnapTolerance = 20.0
	// GridSize is the spacing of the fallback quantization grid.
	GridSize = 20.0
)

// SnapResult is a corrected top-left position. AlignedX and AlignedY report
// which axes snapped to a neighbour rather than to the grid.
type SnapResult struct {
	X, Y     float64
	AlignedX bool
	AlignedY bool
}

// Snap corrects a raw top-left position for an object of the given
// effective size. Each axis is resolved on its own: the closest neighbour
// alignment within SnapTolerance wins (the first one found on a tie),
// otherwise the coordinate is rounded to the grid. The result is not
// checked for collisions.
func Snap(rawX, rawY float64, size model.Size, others []Box) SnapResult {
	x, alignedX := snapAxis(rawX, size.Width, others,
		func(b Box) (float64, float64) { return b.X, b.Right() })
	y, alignedY := snapAxis(rawY, size.Height, others,
		func(b Box) (float64, float64) { return b.Y, b.Bottom() })
	return SnapResult{X: x, Y: y, AlignedX: alignedX, AlignedY: alignedY}
}

// snapAxis tries, per neighbour, its near edge, its far edge and the
// position that puts the dragged object's far edge on the neighbour's near
// edge.
func snapAxis(raw, extent float64, others []Box, edges func(Box) (float64, float64)) (float64, bool) {
	best, bestDist := 0.0, math.Inf(1)
	found := false
	for _, o := range others {
		near, far := edges(o)
		for _, c := range [3]float64{near, far, near - extent} {
			d := math.Abs(raw - c)
			if d <= SnapTolerance && d < bestDist {
				best, bestDist, found = c, d, true
			}
		}
	}
	if found {
		return best, true
	}
	return QuantizeToGrid(raw), false
}

// QuantizeToGrid rounds v to the nearest multiple of GridSize, halves
// rounding up.
func QuantizeToGrid(v float64) float64 {
	return math.Floor(v/GridSize+0.5) * GridSize
}
