// Package raster provides dense rank-2 and rank-3 numeric storage for
// image-backed datasets. Data is held as a flat row-major []float64 with
// channels interleaved along the trailing axis, the layout used for volume
// data throughout this project. Row 0 corresponds to the top of the image.
package raster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"gridframe/pkg/sheet"
)

// Raster is an immutable rank-2 or rank-3 numeric array. Rank-2 rasters
// carry a single implicit channel; rank-3 rasters stack one channel per
// value dimension along the trailing axis.
type Raster struct {
	data     []float64
	rows     int
	cols     int
	channels int
	rank     int
}

// New creates a rank-2 raster from flat row-major data of length rows*cols.
func New(rows, cols int, data []float64) (*Raster, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid raster shape %dx%d: dimensions must be positive", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("raster data length %d does not match shape %dx%d", len(data), rows, cols)
	}
	return &Raster{data: data, rows: rows, cols: cols, channels: 1, rank: 2}, nil
}

// NewChannels creates a rank-3 raster from flat data of length
// rows*cols*channels, with channels interleaved per cell.
func NewChannels(rows, cols, channels int, data []float64) (*Raster, error) {
	if rows <= 0 || cols <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid raster shape %dx%dx%d: dimensions must be positive", rows, cols, channels)
	}
	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("raster data length %d does not match shape %dx%dx%d", len(data), rows, cols, channels)
	}
	return &Raster{data: data, rows: rows, cols: cols, channels: channels, rank: 3}, nil
}

// Stack combines rank-2 rasters of identical shape into a single rank-3
// raster, one channel per input, equivalent to depth-stacking.
func Stack(parts []*Raster) (*Raster, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("cannot stack zero rasters")
	}
	rows, cols := parts[0].rows, parts[0].cols
	for i, p := range parts {
		if p.rank != 2 {
			return nil, fmt.Errorf("stack input %d has rank %d, expected 2", i, p.rank)
		}
		if p.rows != rows || p.cols != cols {
			return nil, fmt.Errorf("stack input %d has shape %dx%d, expected %dx%d", i, p.rows, p.cols, rows, cols)
		}
	}
	data := make([]float64, rows*cols*len(parts))
	for ch, p := range parts {
		for i, v := range p.data {
			data[i*len(parts)+ch] = v
		}
	}
	return NewChannels(rows, cols, len(parts), data)
}

// Rank returns 2 or 3.
func (r *Raster) Rank() int { return r.rank }

// Rows returns the number of rows (the y extent in cells).
func (r *Raster) Rows() int { return r.rows }

// Cols returns the number of columns (the x extent in cells).
func (r *Raster) Cols() int { return r.cols }

// Channels returns the number of value channels.
func (r *Raster) Channels() int { return r.channels }

// Shape returns the full shape: [rows, cols] for rank 2, [rows, cols,
// channels] for rank 3.
func (r *Raster) Shape() []int {
	if r.rank == 2 {
		return []int{r.rows, r.cols}
	}
	return []int{r.rows, r.cols, r.channels}
}

// Len returns the total element count, the product of all shape dimensions.
func (r *Raster) Len() int {
	return r.rows * r.cols * r.channels
}

// At returns the value of channel ch at cell (row, col).
func (r *Raster) At(row, col, ch int) float64 {
	return r.data[(row*r.cols+col)*r.channels+ch]
}

// Sample returns the values of all channels at cell (row, col) as a new
// slice.
func (r *Raster) Sample(row, col int) []float64 {
	base := (row*r.cols + col) * r.channels
	out := make([]float64, r.channels)
	copy(out, r.data[base:base+r.channels])
	return out
}

// Submatrix copies the cells covered by the slice into a new raster of the
// same rank.
func (r *Raster) Submatrix(sl sheet.Slice) (*Raster, error) {
	if sl.T < 0 || sl.B > r.rows || sl.L < 0 || sl.R > r.cols || sl.Empty() {
		return nil, fmt.Errorf("slice rows [%d,%d) cols [%d,%d) out of range for %dx%d raster", sl.T, sl.B, sl.L, sl.R, r.rows, r.cols)
	}
	rows, cols := sl.Rows(), sl.Cols()
	data := make([]float64, rows*cols*r.channels)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			srcBase := ((sl.T+row)*r.cols + sl.L + col) * r.channels
			dstBase := (row*cols + col) * r.channels
			copy(data[dstBase:dstBase+r.channels], r.data[srcBase:srcBase+r.channels])
		}
	}
	out := &Raster{data: data, rows: rows, cols: cols, channels: r.channels, rank: r.rank}
	return out, nil
}

// KeepRow reduces the raster to the single row at index row, preserving
// rank: the result has shape 1 x cols (x channels).
func (r *Raster) KeepRow(row int) (*Raster, error) {
	if row < 0 || row >= r.rows {
		return nil, fmt.Errorf("row %d out of range for %d rows", row, r.rows)
	}
	data := make([]float64, r.cols*r.channels)
	copy(data, r.data[row*r.cols*r.channels:(row+1)*r.cols*r.channels])
	return &Raster{data: data, rows: 1, cols: r.cols, channels: r.channels, rank: r.rank}, nil
}

// KeepCol reduces the raster to the single column at index col, preserving
// rank: the result has shape rows x 1 (x channels).
func (r *Raster) KeepCol(col int) (*Raster, error) {
	if col < 0 || col >= r.cols {
		return nil, fmt.Errorf("column %d out of range for %d columns", col, r.cols)
	}
	data := make([]float64, r.rows*r.channels)
	for row := 0; row < r.rows; row++ {
		base := (row*r.cols + col) * r.channels
		copy(data[row*r.channels:(row+1)*r.channels], r.data[base:base+r.channels])
	}
	return &Raster{data: data, rows: r.rows, cols: 1, channels: r.channels, rank: r.rank}, nil
}

// RowValues returns channel ch of the row at index row as a new slice.
func (r *Raster) RowValues(row, ch int) []float64 {
	out := make([]float64, r.cols)
	for col := 0; col < r.cols; col++ {
		out[col] = r.At(row, col, ch)
	}
	return out
}

// ColValues returns channel ch of the column at index col as a new slice.
func (r *Raster) ColValues(col, ch int) []float64 {
	out := make([]float64, r.rows)
	for row := 0; row < r.rows; row++ {
		out[row] = r.At(row, col, ch)
	}
	return out
}

// FlipUD returns a copy with the row order reversed, converting between the
// stored top-down orientation and ascending-y order.
func (r *Raster) FlipUD() *Raster {
	data := make([]float64, len(r.data))
	stride := r.cols * r.channels
	for row := 0; row < r.rows; row++ {
		src := (r.rows - 1 - row) * stride
		copy(data[row*stride:(row+1)*stride], r.data[src:src+stride])
	}
	return &Raster{data: data, rows: r.rows, cols: r.cols, channels: r.channels, rank: r.rank}
}

// ChannelValues returns channel ch as a flat row-major slice.
func (r *Raster) ChannelValues(ch int) []float64 {
	if r.channels == 1 && ch == 0 {
		out := make([]float64, len(r.data))
		copy(out, r.data)
		return out
	}
	out := make([]float64, r.rows*r.cols)
	for i := range out {
		out[i] = r.data[i*r.channels+ch]
	}
	return out
}

// ChannelMatrix returns channel ch as a gonum dense matrix in storage
// orientation (row 0 at the top).
func (r *Raster) ChannelMatrix(ch int) *mat.Dense {
	return mat.NewDense(r.rows, r.cols, r.ChannelValues(ch))
}

// ChannelMinMax returns the minimum and maximum of channel ch, ignoring
// NaN entries. Both results are NaN when the channel holds no finite
// values.
func (r *Raster) ChannelMinMax(ch int) (min, max float64) {
	min, max = math.NaN(), math.NaN()
	for i := 0; i < r.rows*r.cols; i++ {
		v := r.data[i*r.channels+ch]
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return min, max
}

// Values returns the full flat data in storage order as a new slice.
func (r *Raster) Values() []float64 {
	out := make([]float64, len(r.data))
	copy(out, r.data)
	return out
}
