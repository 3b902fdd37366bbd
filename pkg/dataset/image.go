package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"gridframe/pkg/sheet"
)

// imageInterface implements the dataset operations for raster-backed data.
// The raster is stored in image orientation: row 0 is the top of the
// bounding region, the inverse of ascending-coordinate order. That
// asymmetry is part of the contract: y-axis results are reoriented to
// ascending order on the way out, x-axis results are not, and the two code
// paths are deliberately not symmetric.
type imageInterface struct{}

func (imageInterface) Kind() DataKind { return KindImage }

func (imageInterface) Shape(ds *Dataset) []int { return ds.raster.Shape() }

func (imageInterface) Len(ds *Dataset) int { return ds.raster.Len() }

// Validate is a no-op: image invariants are enforced at construction.
func (imageInterface) Validate(ds *Dataset) error { return nil }

func (imageInterface) Range(ds *Dataset, dim string) (lo, hi float64, ok bool) {
	idx, found := ds.DimensionIndex(dim)
	if !found {
		return 0, 0, false
	}
	l, b, r, t := ds.system.Bounds.LBRT()
	switch {
	case idx == 0:
		return l, r, true
	case idx == 1:
		return b, t, true
	case idx < 2+len(ds.vdims):
		min, max := ds.raster.ChannelMinMax(idx - 2)
		return min, max, true
	default:
		return 0, 0, false
	}
}

// cellCenters returns n evenly spaced cell-center coordinates between the
// edges lo and hi.
func cellCenters(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	half := (hi - lo) / float64(n) / 2
	return floats.Span(make([]float64, n), lo+half, hi-half)
}

// xCenters returns the cell-center x coordinates, ascending left to right.
func (imageInterface) xCenters(ds *Dataset) []float64 {
	return cellCenters(ds.system.Bounds.Left, ds.system.Bounds.Right, ds.raster.Cols())
}

// yCenters returns the cell-center y coordinates, ascending bottom to top.
func (imageInterface) yCenters(ds *Dataset) []float64 {
	return cellCenters(ds.system.Bounds.Bottom, ds.system.Bounds.Top, ds.raster.Rows())
}

func (img imageInterface) Values(ds *Dataset, dim string, expanded bool) ([]float64, error) {
	idx, found := ds.DimensionIndex(dim)
	if !found || idx >= 2+len(ds.vdims) {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}
	rows, cols := ds.raster.Rows(), ds.raster.Cols()
	switch idx {
	case 0:
		xs := img.xCenters(ds)
		if !expanded {
			return xs, nil
		}
		out := make([]float64, 0, rows*cols)
		for row := 0; row < rows; row++ {
			out = append(out, xs...)
		}
		return out, nil
	case 1:
		ys := img.yCenters(ds)
		if !expanded {
			return ys, nil
		}
		out := make([]float64, 0, rows*cols)
		for _, y := range ys {
			for col := 0; col < cols; col++ {
				out = append(out, y)
			}
		}
		return out, nil
	default:
		// Stored top-down, presented in ascending-y order.
		return ds.raster.FlipUD().ChannelValues(idx - 2), nil
	}
}

func (img imageInterface) ValuesGrid(ds *Dataset, dim string) ([][]float64, error) {
	idx, found := ds.DimensionIndex(dim)
	if !found || idx >= 2+len(ds.vdims) {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}
	rows, cols := ds.raster.Rows(), ds.raster.Cols()
	grid := make([][]float64, rows)
	switch idx {
	case 0:
		xs := img.xCenters(ds)
		for row := range grid {
			grid[row] = append([]float64{}, xs...)
		}
	case 1:
		ys := img.yCenters(ds)
		for row := range grid {
			line := make([]float64, cols)
			for col := range line {
				line[col] = ys[row]
			}
			grid[row] = line
		}
	default:
		flipped := ds.raster.FlipUD()
		for row := range grid {
			grid[row] = flipped.RowValues(row, idx-2)
		}
	}
	return grid, nil
}

// Select slices the raster in continuous sheet coordinates. When every
// selected dimension is an exact coordinate the result is the per-channel
// sample at the nearest cell; otherwise the requested rectangle is clamped
// to the dataset's bounds (never expanded), discretized to whole cells, and
// returned with the realized bounding region. A dimension selected by an
// exact coordinate alongside a range is collapsed to its single nearest
// row or column, with a cell-sized realized extent.
func (img imageInterface) Select(ds *Dataset, sel map[string]Selector) (SelectResult, error) {
	for name := range sel {
		if name != ds.kdims[0].Name && name != ds.kdims[1].Name {
			return SelectResult{}, fmt.Errorf("cannot select on %q: image selection is keyed by key dimensions %q and %q", name, ds.kdims[0].Name, ds.kdims[1].Name)
		}
	}
	selX := sel[ds.kdims[0].Name]
	selY := sel[ds.kdims[1].Name]
	sys := ds.system

	if selX.IsScalar() && selY.IsScalar() {
		row, col := sys.SheetToMatrixIdx(selX.value, selY.value)
		if !sys.InRange(row, col) {
			return SelectResult{}, fmt.Errorf("position (%v, %v) outside bounding region", selX.value, selY.value)
		}
		return SelectResult{Sample: ds.raster.Sample(row, col)}, nil
	}

	l, b, r, t := sys.Bounds.LBRT()
	if !selX.IsScalar() {
		l, r = selX.clampExtent(l, r)
	}
	if !selY.IsScalar() {
		b, t = selY.clampExtent(b, t)
	}
	slc := sheet.NewSlice(sheet.BoundingRegion{Left: l, Bottom: b, Right: r, Top: t}, sys)
	if slc.Empty() {
		return SelectResult{}, fmt.Errorf("selection covers no cells")
	}
	data, err := ds.raster.Submatrix(slc)
	if err != nil {
		return SelectResult{}, err
	}
	realized := slc.ComputeBounds(sys)
	l, b, r, t = realized.LBRT()

	switch {
	case selX.IsScalar():
		xc, _ := sys.ClosestCellCenter(selX.value, b)
		_, col := sys.SheetToMatrixIdx(selX.value, b)
		col -= slc.L
		if col < 0 || col >= data.Cols() {
			return SelectResult{}, fmt.Errorf("x position %v outside bounding region", selX.value)
		}
		if data, err = data.KeepCol(col); err != nil {
			return SelectResult{}, err
		}
		l, r = xc-sys.XUnit()/2, xc+sys.XUnit()/2
	case selY.IsScalar():
		_, yc := sys.ClosestCellCenter(l, selY.value)
		row, _ := sys.SheetToMatrixIdx(l, selY.value)
		row -= slc.T
		if row < 0 || row >= data.Rows() {
			return SelectResult{}, fmt.Errorf("y position %v outside bounding region", selY.value)
		}
		if data, err = data.KeepRow(row); err != nil {
			return SelectResult{}, err
		}
		b, t = yc-sys.YUnit()/2, yc+sys.YUnit()/2
	}
	return SelectResult{
		Raster: data,
		Bounds: sheet.BoundingRegion{Left: l, Bottom: b, Right: r, Top: t},
	}, nil
}
