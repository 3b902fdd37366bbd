// Package asciigrid reads and writes ESRI ASCII grid files, the plain-text
// raster interchange format. A grid maps directly onto an image-backed
// dataset: data rows are stored top-down, and the header's lower-left
// origin plus cell size define the continuous bounding region.
package asciigrid

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gridframe/pkg/raster"
	"gridframe/pkg/sheet"
)

// Grid is a parsed ASCII grid: the raster data plus the continuous region
// it covers. NoData cells are represented as NaN in the raster.
type Grid struct {
	Raster    *raster.Raster
	Bounds    sheet.BoundingRegion
	CellSize  float64
	NoData    float64
	HasNoData bool
}

// Read parses the ASCII grid file at path.
func Read(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening grid file: %w", err)
	}
	defer f.Close()
	g, err := parse(bufio.NewScanner(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func parse(sc *bufio.Scanner) (*Grid, error) {
	header := map[string]float64{}
	var fields []string
	line := 0
	for sc.Scan() {
		line++
		fields = strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		// Header lines are "name value" pairs; the first line whose
		// leading field is numeric starts the data block. The numeric
		// check matters for grids two columns wide.
		if len(fields) != 2 {
			break
		}
		if _, err := strconv.ParseFloat(fields[0], 64); err == nil {
			break
		}
		key := strings.ToLower(fields[0])
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid header value %q for %s", line, fields[1], key)
		}
		header[key] = v
		fields = nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading grid: %w", err)
	}

	ncols, ok := header["ncols"]
	if !ok {
		return nil, fmt.Errorf("missing required header ncols")
	}
	nrows, ok := header["nrows"]
	if !ok {
		return nil, fmt.Errorf("missing required header nrows")
	}
	cell, ok := header["cellsize"]
	if !ok || cell <= 0 {
		return nil, fmt.Errorf("missing or non-positive cellsize header")
	}
	cols, rows := int(ncols), int(nrows)
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("invalid grid shape %dx%d", rows, cols)
	}

	// The origin may be given as the corner or the center of the
	// lower-left cell.
	var left, bottom float64
	switch {
	case hasAll(header, "xllcorner", "yllcorner"):
		left, bottom = header["xllcorner"], header["yllcorner"]
	case hasAll(header, "xllcenter", "yllcenter"):
		left, bottom = header["xllcenter"]-cell/2, header["yllcenter"]-cell/2
	default:
		return nil, fmt.Errorf("missing origin headers (xllcorner/yllcorner or xllcenter/yllcenter)")
	}
	noData, hasNoData := header["nodata_value"]

	data := make([]float64, 0, rows*cols)
	appendRow := func(row []string) error {
		for _, tok := range row {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return fmt.Errorf("line %d: invalid data value %q", line, tok)
			}
			if hasNoData && v == noData {
				v = math.NaN()
			}
			data = append(data, v)
		}
		return nil
	}
	if fields != nil {
		if err := appendRow(fields); err != nil {
			return nil, err
		}
	}
	for sc.Scan() {
		line++
		if err := appendRow(strings.Fields(sc.Text())); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading grid: %w", err)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("grid declares %dx%d = %d values but contains %d", rows, cols, rows*cols, len(data))
	}

	r, err := raster.New(rows, cols, data)
	if err != nil {
		return nil, err
	}
	return &Grid{
		Raster: r,
		Bounds: sheet.BoundingRegion{
			Left:   left,
			Bottom: bottom,
			Right:  left + float64(cols)*cell,
			Top:    bottom + float64(rows)*cell,
		},
		CellSize:  cell,
		NoData:    noData,
		HasNoData: hasNoData,
	}, nil
}

func hasAll(m map[string]float64, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// Write saves channel ch of the raster as an ASCII grid with corner-form
// origin headers. NaN cells are written as the grid's nodata value.
func Write(path string, g *Grid, ch int) error {
	if g.Raster == nil {
		return fmt.Errorf("cannot write empty grid")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating grid file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	noData := g.NoData
	if !g.HasNoData {
		noData = -9999
	}
	fmt.Fprintf(w, "ncols %d\n", g.Raster.Cols())
	fmt.Fprintf(w, "nrows %d\n", g.Raster.Rows())
	fmt.Fprintf(w, "xllcorner %s\n", formatFloat(g.Bounds.Left))
	fmt.Fprintf(w, "yllcorner %s\n", formatFloat(g.Bounds.Bottom))
	fmt.Fprintf(w, "cellsize %s\n", formatFloat(g.CellSize))
	fmt.Fprintf(w, "nodata_value %s\n", formatFloat(noData))
	for row := 0; row < g.Raster.Rows(); row++ {
		for col := 0; col < g.Raster.Cols(); col++ {
			if col > 0 {
				if err := w.WriteByte(' '); err != nil {
					return fmt.Errorf("error writing grid: %w", err)
				}
			}
			v := g.Raster.At(row, col, ch)
			if math.IsNaN(v) {
				v = noData
			}
			if _, err := w.WriteString(formatFloat(v)); err != nil {
				return fmt.Errorf("error writing grid: %w", err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("error writing grid: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing grid: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
