package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gridframe/pkg/asciigrid"
	"gridframe/pkg/config"
	"gridframe/pkg/dataset"
	"gridframe/pkg/raster"
	"gridframe/pkg/render"
)

func main() {
	// Parse command line arguments
	input := flag.String("input", "", "ASCII grid file(s), comma-separated; multiple files are stacked as channels")
	configPath := flag.String("config", "gridframe.yaml", "Path to YAML configuration file")
	vdimNames := flag.String("vdims", "", "Comma-separated value dimension names (default: z or z0..zN)")
	stats := flag.Bool("stats", false, "Print dimension ranges and shape")
	selectSpec := flag.String("select", "", "Select the sub-region l,b,r,t before other operations")
	sampleSpec := flag.String("sample", "", "Print the sample at continuous position x,y")
	profileDim := flag.String("profile", "", "Aggregate to a 1D profile along the given key dimension (x or y)")
	aggName := flag.String("agg", "", "Aggregate function: sum, mean, max or min (default from config)")
	renderDir := flag.String("render", "", "Render channels as JPEG files into this directory")
	output := flag.String("output", "", "Write the (selected) first channel as an ASCII grid")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		log.Fatal("No input grid supplied")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *aggName == "" {
		*aggName = cfg.Aggregate.Function
	}

	ds, cellSize, err := loadDataset(*input, *vdimNames)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	if *selectSpec != "" {
		ds, err = selectRegion(ds, *selectSpec)
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}
		b, _ := ds.Bounds()
		fmt.Printf("Selected region: l=%g b=%g r=%g t=%g\n", b.Left, b.Bottom, b.Right, b.Top)
	}

	if *stats || cfg.Output.Verbose {
		printStats(ds)
	}

	if *sampleSpec != "" {
		x, y, err := parsePair(*sampleSpec)
		if err != nil {
			log.Fatalf("Invalid -sample position: %v", err)
		}
		sample, err := ds.Sample(x, y)
		if err != nil {
			log.Fatalf("Sampling failed: %v", err)
		}
		for i, vd := range ds.Vdims() {
			fmt.Printf("%s(%g, %g) = %g\n", vd.Name, x, y, sample[i])
		}
	}

	if *profileDim != "" {
		fn, err := dataset.ReduceByName(*aggName)
		if err != nil {
			log.Fatalf("Invalid aggregate function: %v", err)
		}
		prof, err := ds.Aggregate([]string{*profileDim}, fn)
		if err != nil {
			log.Fatalf("Aggregation failed: %v", err)
		}
		printProfile(prof, *profileDim, *aggName)
	}

	if *renderDir != "" {
		r, ok := ds.Raster()
		if !ok {
			log.Fatal("Dataset has no raster to render")
		}
		if err := render.SaveChannelSequence(r, *renderDir, cfg.Render.Quality); err != nil {
			log.Fatalf("Rendering failed: %v", err)
		}
		fmt.Printf("Rendered %d channel(s) to: %s\n", r.Channels(), *renderDir)
	}

	if *output != "" {
		r, ok := ds.Raster()
		if !ok {
			log.Fatal("Dataset has no raster to export")
		}
		b, _ := ds.Bounds()
		g := &asciigrid.Grid{
			Raster:    r,
			Bounds:    b,
			CellSize:  cellSize,
			NoData:    cfg.Grid.NoDataValue,
			HasNoData: true,
		}
		if err := asciigrid.Write(*output, g, 0); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Grid written to: %s\n", *output)
	}
}

// loadDataset reads one or more ASCII grids and stacks them as the channels
// of a single image dataset. All grids must share shape and bounds.
func loadDataset(input, vdimNames string) (*dataset.Dataset, float64, error) {
	paths := strings.Split(input, ",")
	grids := make([]*asciigrid.Grid, len(paths))
	parts := make([]*raster.Raster, len(paths))
	for i, path := range paths {
		g, err := asciigrid.Read(strings.TrimSpace(path))
		if err != nil {
			return nil, 0, err
		}
		if i > 0 && g.Bounds != grids[0].Bounds {
			return nil, 0, fmt.Errorf("grid %s covers a different region than %s", path, paths[0])
		}
		grids[i] = g
		parts[i] = g.Raster
	}

	data := parts[0]
	if len(parts) > 1 {
		var err error
		if data, err = raster.Stack(parts); err != nil {
			return nil, 0, err
		}
	}

	var vdims []dataset.Dimension
	if vdimNames != "" {
		for _, name := range strings.Split(vdimNames, ",") {
			vdims = append(vdims, dataset.Dim(strings.TrimSpace(name)))
		}
	}
	ds, err := dataset.NewImage(data, grids[0].Bounds, nil, vdims)
	if err != nil {
		return nil, 0, err
	}
	return ds, grids[0].CellSize, nil
}

func selectRegion(ds *dataset.Dataset, spec string) (*dataset.Dataset, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("expected l,b,r,t but got %q", spec)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		vals[i] = v
	}
	kdims := ds.Kdims()
	return ds.SelectRegion(map[string]dataset.Selector{
		kdims[0].Name: dataset.Between(vals[0], vals[2]),
		kdims[1].Name: dataset.Between(vals[1], vals[3]),
	})
}

func parsePair(spec string) (float64, float64, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y but got %q", spec)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func printStats(ds *dataset.Dataset) {
	fmt.Printf("Shape: %v (%d values)\n", ds.Shape(), ds.Len())
	for _, d := range ds.Dimensions() {
		lo, hi, ok := ds.Range(d.Name)
		if !ok {
			continue
		}
		fmt.Printf("  %-10s [%g, %g]\n", d.Name, lo, hi)
	}
}

func printProfile(prof *dataset.Dataset, dim, agg string) {
	coords, err := prof.Values(dim, false)
	if err != nil {
		log.Fatalf("Profile output failed: %v", err)
	}
	fmt.Printf("Profile along %s (%s):\n", dim, agg)
	for _, vd := range prof.Vdims() {
		vals, err := prof.Values(vd.Name, false)
		if err != nil {
			log.Fatalf("Profile output failed: %v", err)
		}
		for i := range coords {
			fmt.Printf("  %s=%-10g %s=%g\n", dim, coords[i], vd.Name, vals[i])
		}
	}
}
