// Package sheet implements the continuous coordinate system underlying
// image-backed datasets. A raster covers an axis-aligned bounding region of
// the continuous plane; each cell is a rectangle whose size is the inverse of
// the sampling density along each axis. The package converts between
// continuous sheet coordinates and discrete matrix indices, following the
// raster convention that matrix row 0 is the top of the bounding region.
package sheet

import (
	"fmt"
	"math"
)

// BoundingRegion is an axis-aligned rectangle in continuous sheet
// coordinates. Regions are immutable; operations that change the extent
// return a new region.
type BoundingRegion struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// NewBoundingRegion constructs a region from two opposite corner points.
// The points may be given in any order.
func NewBoundingRegion(x0, y0, x1, y1 float64) BoundingRegion {
	return BoundingRegion{
		Left:   math.Min(x0, x1),
		Bottom: math.Min(y0, y1),
		Right:  math.Max(x0, x1),
		Top:    math.Max(y0, y1),
	}
}

// LBRT returns the region extents as (left, bottom, right, top).
func (b BoundingRegion) LBRT() (l, bo, r, t float64) {
	return b.Left, b.Bottom, b.Right, b.Top
}

// Width returns the horizontal extent of the region.
func (b BoundingRegion) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of the region.
func (b BoundingRegion) Height() float64 { return b.Top - b.Bottom }

// Validate checks that the region has positive area.
func (b BoundingRegion) Validate() error {
	if !(b.Left < b.Right) || !(b.Bottom < b.Top) {
		return fmt.Errorf("invalid bounding region (l=%v, b=%v, r=%v, t=%v): extents must be positive", b.Left, b.Bottom, b.Right, b.Top)
	}
	return nil
}

// System binds a bounding region to a discrete matrix of Rows x Cols cells.
// XDensity and YDensity are samples per unit distance; their inverses are
// the cell width and height. Row 0 of the matrix is the top edge of the
// region.
type System struct {
	Bounds   BoundingRegion
	XDensity float64
	YDensity float64
	Rows     int
	Cols     int
}

// NewSystem derives a coordinate system from a region and a matrix shape.
// Densities are computed so the matrix exactly tiles the region.
func NewSystem(bounds BoundingRegion, rows, cols int) (System, error) {
	if err := bounds.Validate(); err != nil {
		return System{}, err
	}
	if rows <= 0 || cols <= 0 {
		return System{}, fmt.Errorf("invalid matrix shape %dx%d: dimensions must be positive", rows, cols)
	}
	return System{
		Bounds:   bounds,
		XDensity: float64(cols) / bounds.Width(),
		YDensity: float64(rows) / bounds.Height(),
		Rows:     rows,
		Cols:     cols,
	}, nil
}

// XUnit returns the cell width, the inverse of the x density.
func (s System) XUnit() float64 { return 1 / s.XDensity }

// YUnit returns the cell height, the inverse of the y density.
func (s System) YUnit() float64 { return 1 / s.YDensity }

// SheetToMatrix converts a continuous (x, y) position to continuous matrix
// coordinates. The result is not rounded; whole numbers fall on cell edges,
// and row increases downward from the top of the region.
func (s System) SheetToMatrix(x, y float64) (row, col float64) {
	row = (s.Bounds.Top - y) * s.YDensity
	col = (x - s.Bounds.Left) * s.XDensity
	return row, col
}

// SheetToMatrixIdx returns the index of the cell containing (x, y). The
// result is not clamped; positions outside the region yield out-of-range
// indices, which callers must reject.
func (s System) SheetToMatrixIdx(x, y float64) (r, c int) {
	row, col := s.SheetToMatrix(x, y)
	return int(math.Floor(row)), int(math.Floor(col))
}

// MatrixIdxToSheet returns the continuous coordinates of the center of the
// cell at (r, c).
func (s System) MatrixIdxToSheet(r, c int) (x, y float64) {
	x = s.Bounds.Left + (float64(c)+0.5)*s.XUnit()
	y = s.Bounds.Top - (float64(r)+0.5)*s.YUnit()
	return x, y
}

// ClosestCellCenter snaps a continuous position to the center of the cell
// that contains it.
func (s System) ClosestCellCenter(x, y float64) (cx, cy float64) {
	r, c := s.SheetToMatrixIdx(x, y)
	return s.MatrixIdxToSheet(r, c)
}

// InRange reports whether the matrix index (r, c) addresses a cell of the
// system.
func (s System) InRange(r, c int) bool {
	return r >= 0 && r < s.Rows && c >= 0 && c < s.Cols
}
