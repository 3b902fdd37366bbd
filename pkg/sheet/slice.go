package sheet

import (
	"fmt"
	"math"
)

// Slice describes how a requested sub-rectangle of the sheet maps onto
// half-open matrix index ranges [T, B) x [L, R). Index ranges always land on
// whole cell boundaries, so the realized continuous extent of a Slice can be
// larger than the requested rectangle by up to half a cell on each side.
type Slice struct {
	T, B int
	L, R int
}

// NewSlice computes the index ranges covered by the requested region within
// the coordinate system. A cell is included when the request covers at least
// half of it. The result is clamped to the system's matrix, never extended
// beyond it.
func NewSlice(req BoundingRegion, s System) Slice {
	tm, lm := s.SheetToMatrix(req.Left, req.Top)
	bm, rm := s.SheetToMatrix(req.Right, req.Bottom)

	sl := Slice{
		T: int(math.Ceil(tm - 0.5)),
		B: int(math.Floor(bm + 0.5)),
		L: int(math.Ceil(lm - 0.5)),
		R: int(math.Floor(rm + 0.5)),
	}
	sl.T = clamp(sl.T, 0, s.Rows)
	sl.B = clamp(sl.B, sl.T, s.Rows)
	sl.L = clamp(sl.L, 0, s.Cols)
	sl.R = clamp(sl.R, sl.L, s.Cols)
	return sl
}

// ComputeBounds maps the slice's index ranges back to the continuous
// rectangle they cover. The result lies on cell edges of the system.
func (sl Slice) ComputeBounds(s System) BoundingRegion {
	l := s.Bounds.Left + float64(sl.L)*s.XUnit()
	r := s.Bounds.Left + float64(sl.R)*s.XUnit()
	t := s.Bounds.Top - float64(sl.T)*s.YUnit()
	b := s.Bounds.Top - float64(sl.B)*s.YUnit()
	return BoundingRegion{Left: l, Bottom: b, Right: r, Top: t}
}

// Rows returns the number of matrix rows covered by the slice.
func (sl Slice) Rows() int { return sl.B - sl.T }

// Cols returns the number of matrix columns covered by the slice.
func (sl Slice) Cols() int { return sl.R - sl.L }

// Empty reports whether the slice covers no cells.
func (sl Slice) Empty() bool { return sl.Rows() == 0 || sl.Cols() == 0 }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// spacingTolerance is the relative deviation from uniform spacing accepted
// by BoundRange.
const spacingTolerance = 1e-6

// BoundRange derives the continuous extent and sampling density of an axis
// from a 1D ascending array of cell-center coordinates. The returned low and
// high are extended by half a cell so they describe cell edges rather than
// centers; density is samples per unit distance.
func BoundRange(vals []float64) (low, high, density float64, err error) {
	if len(vals) < 2 {
		return 0, 0, 0, fmt.Errorf("bound range requires at least 2 coordinate samples, got %d", len(vals))
	}
	spacing := (vals[len(vals)-1] - vals[0]) / float64(len(vals)-1)
	if spacing <= 0 {
		return 0, 0, 0, fmt.Errorf("coordinate samples must be ascending")
	}
	for i := 1; i < len(vals); i++ {
		step := vals[i] - vals[i-1]
		if math.Abs(step-spacing) > spacingTolerance*math.Abs(spacing) {
			return 0, 0, 0, fmt.Errorf("coordinate samples are not uniformly spaced: step %v at index %d, expected %v", step, i, spacing)
		}
	}
	half := spacing / 2
	return vals[0] - half, vals[len(vals)-1] + half, 1 / spacing, nil
}
