// Package dataset provides a labeled multidimensional dataset facade backed
// by either a raster (a 2D/3D numeric array covering a continuous bounding
// region) or a set of named columns. Generic operations — range queries,
// coordinate/value extraction, sub-region selection, group-by decomposition
// and axis reduction — are dispatched to the interface implementation
// matching the dataset's representation. The representation is resolved once
// at construction via a data-kind tag, never per call.
package dataset

import "fmt"

// Dimension describes one labeled axis of a dataset. Key dimensions index
// the data (for images, the two continuous spatial axes); value dimensions
// name the measured quantities stored per sample.
type Dimension struct {
	Name  string
	Label string
}

// Dim returns a Dimension whose label equals its name.
func Dim(name string) Dimension {
	return Dimension{Name: name, Label: name}
}

// DefaultKdims returns the default key dimensions for image data: the x and
// y spatial axes.
func DefaultKdims() []Dimension {
	return []Dimension{Dim("x"), Dim("y")}
}

// DefaultVdims returns default value dimension names for n channels: "z"
// for a single channel, "z0".."zN" otherwise.
func DefaultVdims(n int) []Dimension {
	if n == 1 {
		return []Dimension{Dim("z")}
	}
	dims := make([]Dimension, n)
	for i := range dims {
		dims[i] = Dim(fmt.Sprintf("z%d", i))
	}
	return dims
}

// DataKind tags the stored representation of a dataset.
type DataKind int

const (
	// KindImage is a raster over a continuous bounding region.
	KindImage DataKind = iota
	// KindColumns is a set of equally long named 1D arrays.
	KindColumns
)

func (k DataKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindColumns:
		return "columns"
	default:
		return fmt.Sprintf("DataKind(%d)", int(k))
	}
}

// Interface is the operation table for one data representation. All methods
// are pure: they read the dataset and return new values, never mutating the
// input.
type Interface interface {
	Kind() DataKind
	Shape(ds *Dataset) []int
	Len(ds *Dataset) int
	Validate(ds *Dataset) error
	Range(ds *Dataset, dim string) (lo, hi float64, ok bool)
	Values(ds *Dataset, dim string, expanded bool) ([]float64, error)
	ValuesGrid(ds *Dataset, dim string) ([][]float64, error)
	Select(ds *Dataset, sel map[string]Selector) (SelectResult, error)
	GroupBy(ds *Dataset, dims []string) (*Groups, error)
	Aggregate(ds *Dataset, keep []string, fn ReduceFunc) (*Dataset, error)
}

// interfaceTable maps each data kind to its implementation. Construction
// resolves the entry once and stores it on the dataset.
var interfaceTable = map[DataKind]Interface{
	KindImage:   imageInterface{},
	KindColumns: columnsInterface{},
}

func interfaceFor(kind DataKind) (Interface, error) {
	iface, ok := interfaceTable[kind]
	if !ok {
		return nil, fmt.Errorf("no interface registered for data kind %v", kind)
	}
	return iface, nil
}
