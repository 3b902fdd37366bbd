package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ReduceFunc reduces a sequence of values to a single value.
type ReduceFunc func([]float64) float64

// Built-in reducers. Sum, Max and Min come straight from gonum's floats
// package; Mean wraps the unweighted gonum stat mean.
var (
	Sum  ReduceFunc = floats.Sum
	Max  ReduceFunc = floats.Max
	Min  ReduceFunc = floats.Min
	Mean ReduceFunc = func(xs []float64) float64 { return stat.Mean(xs, nil) }
)

// ReduceByName resolves a reducer from its configuration name.
func ReduceByName(name string) (ReduceFunc, error) {
	switch name {
	case "sum":
		return Sum, nil
	case "mean":
		return Mean, nil
	case "max":
		return Max, nil
	case "min":
		return Min, nil
	default:
		return nil, fmt.Errorf("unknown aggregate function %q (want sum, mean, max or min)", name)
	}
}

// Aggregate reduces the raster over every key dimension not named in keep.
// The array axis for a reduced key dimension is its reverse-order position:
// dropping y reduces rows, dropping x reduces columns.
//
// One kept dimension yields a 1D profile: a column dataset pairing the kept
// dimension's unexpanded coordinates with the reduced values, aligned in
// ascending coordinate order. No kept dimensions yields a single-row column
// dataset with one reduced value per value dimension. Keeping both
// dimensions leaves nothing to reduce and is rejected.
func (img imageInterface) Aggregate(ds *Dataset, keep []string, fn ReduceFunc) (*Dataset, error) {
	if fn == nil {
		return nil, fmt.Errorf("aggregate requires a function")
	}
	kept := make([]Dimension, 0, len(keep))
	for _, name := range keep {
		idx, found := ds.DimensionIndex(name)
		if !found || idx >= len(ds.kdims) {
			return nil, fmt.Errorf("cannot aggregate over %q: not a key dimension", name)
		}
		kept = append(kept, ds.kdims[idx])
	}
	var dropped []Dimension
	for _, kd := range ds.kdims {
		retained := false
		for _, k := range kept {
			if k.Name == kd.Name {
				retained = true
				break
			}
		}
		if !retained {
			dropped = append(dropped, kd)
		}
	}

	switch len(dropped) {
	case 1:
		return img.aggregateProfile(ds, kept[0], dropped[0], fn)
	case 2:
		return img.aggregateAll(ds, fn)
	default:
		return nil, fmt.Errorf("aggregate keeping all key dimensions reduces nothing")
	}
}

func (img imageInterface) aggregateProfile(ds *Dataset, kept, dropped Dimension, fn ReduceFunc) (*Dataset, error) {
	didx, _ := ds.DimensionIndex(dropped.Name)
	coords, err := img.Values(ds, kept.Name, false)
	if err != nil {
		return nil, err
	}
	cols := map[string][]float64{kept.Name: coords}
	for ch, vd := range ds.vdims {
		var out []float64
		if didx == 1 {
			// y dropped: reduce each column across rows; column order
			// already matches ascending x coordinates.
			out = make([]float64, ds.raster.Cols())
			for c := range out {
				out[c] = fn(ds.raster.ColValues(c, ch))
			}
		} else {
			// x dropped: reduce each row across columns, then reverse from
			// top-down storage order to ascending y order.
			out = make([]float64, ds.raster.Rows())
			for r := range out {
				out[len(out)-1-r] = fn(ds.raster.RowValues(r, ch))
			}
		}
		cols[vd.Name] = out
	}
	return NewColumns(cols, []Dimension{kept}, ds.vdims)
}

func (img imageInterface) aggregateAll(ds *Dataset, fn ReduceFunc) (*Dataset, error) {
	cols := make(map[string][]float64, len(ds.vdims))
	for ch, vd := range ds.vdims {
		cols[vd.Name] = []float64{fn(ds.raster.ChannelValues(ch))}
	}
	return NewColumns(cols, nil, ds.vdims)
}
