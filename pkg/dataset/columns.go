package dataset

import (
	"fmt"
	"math"
)

// columnSet stores equally long named 1D arrays in dimension order. It is
// the minimal tabular representation used for group-by and aggregation
// results; it is not a dataframe.
type columnSet struct {
	order  []string
	data   map[string][]float64
	length int
}

func newColumnSet(dims []Dimension, data map[string][]float64) (*columnSet, error) {
	cs := &columnSet{data: make(map[string][]float64, len(dims))}
	for i, d := range dims {
		col, ok := data[d.Name]
		if !ok {
			return nil, fmt.Errorf("missing column for dimension %q", d.Name)
		}
		if i == 0 {
			cs.length = len(col)
		} else if len(col) != cs.length {
			return nil, fmt.Errorf("column %q has length %d, expected %d", d.Name, len(col), cs.length)
		}
		cs.order = append(cs.order, d.Name)
		cs.data[d.Name] = col
	}
	return cs, nil
}

func (cs *columnSet) column(name string) ([]float64, bool) {
	col, ok := cs.data[name]
	return col, ok
}

// columnsInterface implements the dataset operations for column-backed
// data. Only the read-side operations are provided; selection, grouping and
// aggregation of tabular data are outside this layer.
type columnsInterface struct{}

func (columnsInterface) Kind() DataKind { return KindColumns }

func (columnsInterface) Shape(ds *Dataset) []int {
	return []int{ds.columns.length, len(ds.columns.order)}
}

func (columnsInterface) Len(ds *Dataset) int { return ds.columns.length }

func (columnsInterface) Validate(ds *Dataset) error {
	for _, name := range ds.columns.order {
		if len(ds.columns.data[name]) != ds.columns.length {
			return fmt.Errorf("column %q has length %d, expected %d", name, len(ds.columns.data[name]), ds.columns.length)
		}
	}
	return nil
}

func (columnsInterface) Range(ds *Dataset, dim string) (lo, hi float64, ok bool) {
	col, found := ds.columns.column(dim)
	if !found {
		return 0, 0, false
	}
	lo, hi = math.NaN(), math.NaN()
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

func (columnsInterface) Values(ds *Dataset, dim string, expanded bool) ([]float64, error) {
	col, found := ds.columns.column(dim)
	if !found {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

func (columnsInterface) ValuesGrid(ds *Dataset, dim string) ([][]float64, error) {
	return nil, fmt.Errorf("column data has no gridded form")
}

func (columnsInterface) Select(ds *Dataset, sel map[string]Selector) (SelectResult, error) {
	return SelectResult{}, fmt.Errorf("select is not supported for column data")
}

func (columnsInterface) GroupBy(ds *Dataset, dims []string) (*Groups, error) {
	return nil, fmt.Errorf("groupby is not supported for column data")
}

func (columnsInterface) Aggregate(ds *Dataset, keep []string, fn ReduceFunc) (*Dataset, error) {
	return nil, fmt.Errorf("aggregate is not supported for column data")
}
