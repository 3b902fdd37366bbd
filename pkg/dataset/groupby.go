package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupEntry pairs a group key (one value per grouped dimension) with its
// sub-dataset.
type GroupEntry struct {
	Key   []float64
	Group *Dataset
}

// Groups is an insertion-ordered collection of (key, sub-dataset) pairs
// produced by GroupBy. It serves both container flavors of the operation:
// Entries for plain ordered pairs, Get for mapping-style lookup. Adding a
// duplicate key overwrites the earlier value but keeps its position.
type Groups struct {
	Kdims   []Dimension
	entries []GroupEntry
	index   map[string]int
}

func newGroups(kdims []Dimension) *Groups {
	return &Groups{Kdims: kdims, index: make(map[string]int)}
}

func (g *Groups) add(key []float64, ds *Dataset) {
	ks := keyString(key)
	if i, ok := g.index[ks]; ok {
		g.entries[i].Group = ds
		return
	}
	g.index[ks] = len(g.entries)
	g.entries = append(g.entries, GroupEntry{Key: key, Group: ds})
}

// Len returns the number of groups.
func (g *Groups) Len() int { return len(g.entries) }

// Entries returns the groups in insertion order.
func (g *Groups) Entries() []GroupEntry { return g.entries }

// Get returns the group stored under the given key values.
func (g *Groups) Get(key ...float64) (*Dataset, bool) {
	i, ok := g.index[keyString(key)]
	if !ok {
		return nil, false
	}
	return g.entries[i].Group, true
}

func keyString(key []float64) string {
	parts := make([]string, len(key))
	for i, v := range key {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// GroupBy splits an image dataset along grouped key dimensions.
//
// Grouping by a single dimension extracts one row or column per coordinate
// along that axis, paired with the other axis's coordinates as a 1D
// sub-dataset. The two axes are not symmetric: grouping by y walks the
// stored rows in reverse so keys ascend with the coordinate values, while
// grouping by x extracts columns from row-reversed data so each column
// aligns with ascending y coordinates.
//
// Grouping by both dimensions falls back to a fully expanded per-cell
// enumeration, one single-sample sub-dataset per cell.
func (img imageInterface) GroupBy(ds *Dataset, dims []string) (*Groups, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("groupby requires at least one dimension")
	}
	grouped := make([]Dimension, len(dims))
	for i, name := range dims {
		idx, found := ds.DimensionIndex(name)
		if !found || idx >= len(ds.kdims) {
			return nil, fmt.Errorf("cannot group by %q: not a key dimension", name)
		}
		grouped[i] = ds.kdims[idx]
		for j := 0; j < i; j++ {
			if dims[j] == name {
				return nil, fmt.Errorf("duplicate groupby dimension %q", name)
			}
		}
	}

	if len(grouped) == 1 {
		return img.groupBySingle(ds, grouped[0])
	}
	return img.groupByExpanded(ds, grouped)
}

func (img imageInterface) groupBySingle(ds *Dataset, dim Dimension) (*Groups, error) {
	didx, _ := ds.DimensionIndex(dim.Name)
	other := ds.kdims[1-didx]
	coords, err := img.Values(ds, dim.Name, false)
	if err != nil {
		return nil, err
	}
	otherVals, err := img.Values(ds, other.Name, false)
	if err != nil {
		return nil, err
	}

	groups := newGroups([]Dimension{dim})
	rows := ds.raster.Rows()
	data := ds.raster
	if didx == 0 {
		// Grouping by x: columns are extracted from row-reversed data so
		// they pair with ascending y coordinates.
		data = data.FlipUD()
	}
	for j, coord := range coords {
		cols := map[string][]float64{other.Name: otherVals}
		for ch, vd := range ds.vdims {
			if didx == 1 {
				// Grouping by y: coords ascend bottom-up while storage is
				// top-down, so coordinate j maps to row rows-1-j of the
				// unflipped data.
				cols[vd.Name] = data.RowValues(rows-1-j, ch)
			} else {
				cols[vd.Name] = data.ColValues(j, ch)
			}
		}
		sub, err := NewColumns(cols, []Dimension{other}, ds.vdims)
		if err != nil {
			return nil, err
		}
		groups.add([]float64{coord}, sub)
	}
	return groups, nil
}

func (img imageInterface) groupByExpanded(ds *Dataset, grouped []Dimension) (*Groups, error) {
	keyVals := make([][]float64, len(grouped))
	for i, d := range grouped {
		vals, err := img.Values(ds, d.Name, true)
		if err != nil {
			return nil, err
		}
		keyVals[i] = vals
	}
	chanVals := make([][]float64, len(ds.vdims))
	for ch, vd := range ds.vdims {
		vals, err := img.Values(ds, vd.Name, true)
		if err != nil {
			return nil, err
		}
		chanVals[ch] = vals
	}

	groups := newGroups(grouped)
	n := ds.raster.Rows() * ds.raster.Cols()
	for i := 0; i < n; i++ {
		key := make([]float64, len(grouped))
		for k := range grouped {
			key[k] = keyVals[k][i]
		}
		cols := make(map[string][]float64, len(ds.vdims))
		for ch, vd := range ds.vdims {
			cols[vd.Name] = []float64{chanVals[ch][i]}
		}
		sub, err := NewColumns(cols, nil, ds.vdims)
		if err != nil {
			return nil, err
		}
		groups.add(key, sub)
	}
	return groups, nil
}
