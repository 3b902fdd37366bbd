package asciigrid

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridframe/pkg/raster"
	"gridframe/pkg/sheet"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.asc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCornerOrigin(t *testing.T) {
	path := writeTemp(t, `ncols 4
nrows 3
xllcorner 0
yllcorner 0
cellsize 1
nodata_value -9999
25.5 26.5 27.5 28.5
15.5 16.5 17.5 18.5
5.5 6.5 7.5 -9999
`)
	g, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Raster.Rows())
	assert.Equal(t, 4, g.Raster.Cols())
	assert.Equal(t, 1.0, g.CellSize)
	assert.Equal(t, sheet.BoundingRegion{Left: 0, Bottom: 0, Right: 4, Top: 3}, g.Bounds)
	// Row 0 is the top of the region.
	assert.Equal(t, 25.5, g.Raster.At(0, 0, 0))
	assert.True(t, math.IsNaN(g.Raster.At(2, 3, 0)))
}

func TestReadCenterOrigin(t *testing.T) {
	path := writeTemp(t, `ncols 2
nrows 2
xllcenter 0.5
yllcenter 0.5
cellsize 1
1 2
3 4
`)
	g, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, sheet.BoundingRegion{Left: 0, Bottom: 0, Right: 2, Top: 2}, g.Bounds)
	assert.Equal(t, 1.0, g.Raster.At(0, 0, 0))
	assert.False(t, g.HasNoData)
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"missing ncols": `nrows 2
xllcorner 0
yllcorner 0
cellsize 1
1 2 3
4 5 6
`,
		"missing origin": `ncols 2
nrows 1
cellsize 1
1 2
`,
		"bad value": `ncols 2
nrows 1
xllcorner 0
yllcorner 0
cellsize 1
1 oops
`,
		"short data": `ncols 3
nrows 2
xllcorner 0
yllcorner 0
cellsize 1
1 2 3
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(writeTemp(t, content))
			assert.Error(t, err)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.asc"))
	assert.ErrorContains(t, err, "error opening grid file")
}

func TestRoundTrip(t *testing.T) {
	r, err := raster.New(2, 3, []float64{1, 2, math.NaN(), 4, 5, 6})
	require.NoError(t, err)
	g := &Grid{
		Raster:    r,
		Bounds:    sheet.BoundingRegion{Left: -1, Bottom: -1, Right: 2, Top: 1},
		CellSize:  1,
		NoData:    -9999,
		HasNoData: true,
	}
	path := filepath.Join(t.TempDir(), "out.asc")
	require.NoError(t, Write(path, g, 0))

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, g.Bounds, back.Bounds)
	assert.Equal(t, 2, back.Raster.Rows())
	assert.Equal(t, 3, back.Raster.Cols())
	assert.Equal(t, 1.0, back.Raster.At(0, 0, 0))
	assert.True(t, math.IsNaN(back.Raster.At(0, 2, 0)))
	assert.Equal(t, 6.0, back.Raster.At(1, 2, 0))
}
