package dataset

import (
	"fmt"
	"sort"

	"gridframe/pkg/raster"
	"gridframe/pkg/sheet"
)

// Dataset pairs labeled dimensions with a stored representation. Datasets
// are immutable: every operation returns new data rather than mutating in
// place, so distinct instances are safe to use concurrently.
type Dataset struct {
	kind  DataKind
	iface Interface
	kdims []Dimension
	vdims []Dimension

	// image representation
	raster *raster.Raster
	system sheet.System

	// columns representation
	columns *columnSet
}

// NewImage constructs an image-backed dataset from a raster and the
// continuous bounding region it covers. kdims defaults to the x and y axes
// and must have exactly two entries; vdims defaults to one name per channel
// and must match the raster's channel count.
func NewImage(r *raster.Raster, bounds sheet.BoundingRegion, kdims, vdims []Dimension) (*Dataset, error) {
	if r == nil {
		return nil, fmt.Errorf("image dataset expects a 2D or 3D array")
	}
	if kdims == nil {
		kdims = DefaultKdims()
	}
	if vdims == nil {
		vdims = DefaultVdims(r.Channels())
	}
	if len(kdims) != 2 {
		return nil, fmt.Errorf("image dataset expects exactly 2 key dimensions, got %d", len(kdims))
	}
	if len(vdims) != r.Channels() {
		return nil, fmt.Errorf("image dataset has %d channels but %d value dimensions", r.Channels(), len(vdims))
	}
	sys, err := sheet.NewSystem(bounds, r.Rows(), r.Cols())
	if err != nil {
		return nil, err
	}
	iface, err := interfaceFor(KindImage)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		kind:   KindImage,
		iface:  iface,
		kdims:  kdims,
		vdims:  vdims,
		raster: r,
		system: sys,
	}, nil
}

// NewImageFromGrid constructs an image-backed dataset from coordinate
// sample arrays and per-value-dimension grids, the mapping form of
// construction. coords holds one ascending, uniformly spaced cell-center
// array per key dimension; values holds one rows x cols grid per value
// dimension, in storage orientation (row 0 at the top of the region). The
// bounding region and densities are derived from the coordinate arrays.
func NewImageFromGrid(coords map[string][]float64, values map[string][][]float64, kdims, vdims []Dimension) (*Dataset, error) {
	if kdims == nil {
		kdims = DefaultKdims()
	}
	if len(kdims) != 2 {
		return nil, fmt.Errorf("image dataset expects exactly 2 key dimensions, got %d", len(kdims))
	}
	if vdims == nil {
		if len(values) != 1 {
			return nil, fmt.Errorf("value dimensions must be declared when supplying %d value grids", len(values))
		}
		for name := range values {
			vdims = []Dimension{Dim(name)}
		}
	}
	if err := checkDimensionKeys("coordinate", keysOf(coords), kdims); err != nil {
		return nil, err
	}
	if err := checkDimensionKeys("value", gridKeysOf(values), vdims); err != nil {
		return nil, err
	}

	xs := coords[kdims[0].Name]
	ys := coords[kdims[1].Name]
	l, r, _, err := sheet.BoundRange(xs)
	if err != nil {
		return nil, fmt.Errorf("key dimension %q: %w", kdims[0].Name, err)
	}
	b, t, _, err := sheet.BoundRange(ys)
	if err != nil {
		return nil, fmt.Errorf("key dimension %q: %w", kdims[1].Name, err)
	}
	rows, cols := len(ys), len(xs)

	parts := make([]*raster.Raster, len(vdims))
	for i, vd := range vdims {
		grid := values[vd.Name]
		if len(grid) != rows {
			return nil, fmt.Errorf("value dimension %q has %d rows, expected %d", vd.Name, len(grid), rows)
		}
		flat := make([]float64, 0, rows*cols)
		for ri, row := range grid {
			if len(row) != cols {
				return nil, fmt.Errorf("value dimension %q row %d has %d columns, expected %d", vd.Name, ri, len(row), cols)
			}
			flat = append(flat, row...)
		}
		part, err := raster.New(rows, cols, flat)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}
	data := parts[0]
	if len(parts) > 1 {
		if data, err = raster.Stack(parts); err != nil {
			return nil, err
		}
	}
	bounds := sheet.BoundingRegion{Left: l, Bottom: b, Right: r, Top: t}
	return NewImage(data, bounds, kdims, vdims)
}

// NewColumns constructs a column-backed dataset from named 1D arrays. Every
// declared dimension must have a column of the shared length.
func NewColumns(data map[string][]float64, kdims, vdims []Dimension) (*Dataset, error) {
	if len(vdims) == 0 {
		return nil, fmt.Errorf("column dataset expects at least one value dimension")
	}
	dims := append(append([]Dimension{}, kdims...), vdims...)
	if err := checkDimensionKeys("column", keysOf(data), dims); err != nil {
		return nil, err
	}
	cs, err := newColumnSet(dims, data)
	if err != nil {
		return nil, err
	}
	iface, err := interfaceFor(KindColumns)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		kind:    KindColumns,
		iface:   iface,
		kdims:   kdims,
		vdims:   vdims,
		columns: cs,
	}, nil
}

// Kind returns the stored representation tag.
func (ds *Dataset) Kind() DataKind { return ds.kind }

// Kdims returns the key dimensions.
func (ds *Dataset) Kdims() []Dimension { return ds.kdims }

// Vdims returns the value dimensions.
func (ds *Dataset) Vdims() []Dimension { return ds.vdims }

// Dimensions returns key dimensions followed by value dimensions.
func (ds *Dataset) Dimensions() []Dimension {
	return append(append([]Dimension{}, ds.kdims...), ds.vdims...)
}

// DimensionIndex returns the position of the named dimension among
// Dimensions.
func (ds *Dataset) DimensionIndex(name string) (int, bool) {
	for i, d := range ds.Dimensions() {
		if d.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Bounds returns the continuous bounding region of an image-backed dataset.
func (ds *Dataset) Bounds() (sheet.BoundingRegion, bool) {
	if ds.kind != KindImage {
		return sheet.BoundingRegion{}, false
	}
	return ds.system.Bounds, true
}

// System returns the sheet coordinate system of an image-backed dataset.
func (ds *Dataset) System() (sheet.System, bool) {
	if ds.kind != KindImage {
		return sheet.System{}, false
	}
	return ds.system, true
}

// Raster returns the underlying raster of an image-backed dataset.
func (ds *Dataset) Raster() (*raster.Raster, bool) {
	if ds.kind != KindImage {
		return nil, false
	}
	return ds.raster, true
}

// Column returns the named column of a column-backed dataset.
func (ds *Dataset) Column(name string) ([]float64, bool) {
	if ds.kind != KindColumns {
		return nil, false
	}
	return ds.columns.column(name)
}

// Shape returns the full shape of the stored data.
func (ds *Dataset) Shape() []int { return ds.iface.Shape(ds) }

// Len returns the total element count of the stored data.
func (ds *Dataset) Len() int { return ds.iface.Len(ds) }

// Validate checks representation-level invariants.
func (ds *Dataset) Validate() error { return ds.iface.Validate(ds) }

// Range returns the extent of the named dimension. For image key
// dimensions this is the continuous bounding region extent, independent of
// the stored values; for value dimensions it is the (min, max) of the data
// ignoring NaN entries. ok is false for unknown dimensions.
func (ds *Dataset) Range(dim string) (lo, hi float64, ok bool) {
	return ds.iface.Range(ds, dim)
}

// Values returns per-sample values of the named dimension, flattened in
// row-major order. For image key dimensions with expanded=false the result
// is the 1D cell-center coordinate sequence; with expanded=true it is
// broadcast to one entry per cell. Image value dimensions are returned in
// ascending-y order.
func (ds *Dataset) Values(dim string, expanded bool) ([]float64, error) {
	return ds.iface.Values(ds, dim, expanded)
}

// ValuesGrid returns the expanded 2D form of Values for gridded data.
func (ds *Dataset) ValuesGrid(dim string) ([][]float64, error) {
	return ds.iface.ValuesGrid(ds, dim)
}

// Select applies a per-key-dimension selection. See Interface.Select for
// the result contract; SelectRegion and Sample cover the two branches with
// more convenient signatures.
func (ds *Dataset) Select(sel map[string]Selector) (SelectResult, error) {
	return ds.iface.Select(ds, sel)
}

// SelectRegion selects a sub-region and returns it as a new dataset with
// the realized bounding region. At least one selector must be a range.
func (ds *Dataset) SelectRegion(sel map[string]Selector) (*Dataset, error) {
	res, err := ds.iface.Select(ds, sel)
	if err != nil {
		return nil, err
	}
	if res.Raster == nil {
		return nil, fmt.Errorf("exact-point selection yields a sample, not a region; use Sample")
	}
	return NewImage(res.Raster, res.Bounds, ds.kdims, ds.vdims)
}

// Sample returns the per-channel values of the cell nearest to the
// continuous position (x, y).
func (ds *Dataset) Sample(x, y float64) ([]float64, error) {
	if ds.kind != KindImage {
		return nil, fmt.Errorf("sample is only defined for image data, not %v", ds.kind)
	}
	sel := map[string]Selector{
		ds.kdims[0].Name: At(x),
		ds.kdims[1].Name: At(y),
	}
	res, err := ds.iface.Select(ds, sel)
	if err != nil {
		return nil, err
	}
	return res.Sample, nil
}

// GroupBy splits the dataset along the named key dimensions into an ordered
// collection of sub-datasets.
func (ds *Dataset) GroupBy(dims ...string) (*Groups, error) {
	return ds.iface.GroupBy(ds, dims)
}

// Aggregate reduces the data over every key dimension not named in keep,
// applying fn along the reduced axes. With one kept dimension the result is
// a 1D profile dataset pairing the kept coordinates with reduced values;
// with none it is a single-row dataset holding one value per value
// dimension.
func (ds *Dataset) Aggregate(keep []string, fn ReduceFunc) (*Dataset, error) {
	return ds.iface.Aggregate(ds, keep, fn)
}

// Reduce collapses the entire array to a single scalar.
func (ds *Dataset) Reduce(fn ReduceFunc) (float64, error) {
	if ds.kind != KindImage {
		return 0, fmt.Errorf("reduce is only defined for image data, not %v", ds.kind)
	}
	if fn == nil {
		return 0, fmt.Errorf("reduce requires a function")
	}
	return fn(ds.raster.Values()), nil
}

// checkDimensionKeys verifies that the supplied map keys are exactly the
// declared dimension names, reporting missing and unexpected keys.
func checkDimensionKeys(what string, keys []string, dims []Dimension) error {
	declared := make(map[string]bool, len(dims))
	for _, d := range dims {
		declared[d.Name] = true
	}
	supplied := make(map[string]bool, len(keys))
	var extra []string
	for _, k := range keys {
		supplied[k] = true
		if !declared[k] {
			extra = append(extra, k)
		}
	}
	var missing []string
	for _, d := range dims {
		if !supplied[d.Name] {
			missing = append(missing, d.Name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("%s keys do not match declared dimensions (missing %v, unexpected %v)", what, missing, extra)
	}
	return nil
}

func keysOf(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func gridKeysOf(m map[string][][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
