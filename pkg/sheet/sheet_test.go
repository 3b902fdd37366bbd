package sheet

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const eps = 1e-9

func testSystem(t *testing.T) System {
	t.Helper()
	// 4x4 cells over the unit square centered on the origin.
	s, err := NewSystem(NewBoundingRegion(-0.5, -0.5, 0.5, 0.5), 4, 4)
	if err != nil {
		t.Fatalf("Failed to create system: %v", err)
	}
	return s
}

func TestNewBoundingRegionOrdersCorners(t *testing.T) {
	b := NewBoundingRegion(1, 2, -1, -2)
	l, bo, r, tp := b.LBRT()
	if l != -1 || bo != -2 || r != 1 || tp != 2 {
		t.Errorf("Expected (-1,-2,1,2), got (%v,%v,%v,%v)", l, bo, r, tp)
	}
}

func TestBoundingRegionValidate(t *testing.T) {
	if err := (BoundingRegion{Left: 0, Bottom: 0, Right: 1, Top: 1}).Validate(); err != nil {
		t.Errorf("Valid region rejected: %v", err)
	}
	if err := (BoundingRegion{Left: 1, Bottom: 0, Right: 0, Top: 1}).Validate(); err == nil {
		t.Error("Inverted region accepted")
	}
}

func TestSystemDensities(t *testing.T) {
	s := testSystem(t)
	if math.Abs(s.XDensity-4) > eps || math.Abs(s.YDensity-4) > eps {
		t.Errorf("Expected densities (4,4), got (%v,%v)", s.XDensity, s.YDensity)
	}
	if math.Abs(s.XUnit()-0.25) > eps {
		t.Errorf("Expected cell width 0.25, got %v", s.XUnit())
	}
}

func TestSheetToMatrixIdx(t *testing.T) {
	s := testSystem(t)
	cases := []struct {
		x, y float64
		r, c int
	}{
		{-0.45, 0.45, 0, 0},  // top-left cell
		{0.45, -0.45, 3, 3},  // bottom-right cell
		{-0.45, -0.45, 3, 0}, // bottom-left: row index grows downward
		{0.05, 0.05, 1, 2},
	}
	for _, tc := range cases {
		r, c := s.SheetToMatrixIdx(tc.x, tc.y)
		if r != tc.r || c != tc.c {
			t.Errorf("SheetToMatrixIdx(%v,%v): expected (%d,%d), got (%d,%d)", tc.x, tc.y, tc.r, tc.c, r, c)
		}
	}
}

func TestMatrixIdxToSheetRoundTrip(t *testing.T) {
	s := testSystem(t)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			x, y := s.MatrixIdxToSheet(r, c)
			rr, cc := s.SheetToMatrixIdx(x, y)
			if rr != r || cc != c {
				t.Errorf("Round trip (%d,%d) -> (%v,%v) -> (%d,%d)", r, c, x, y, rr, cc)
			}
		}
	}
}

func TestClosestCellCenter(t *testing.T) {
	s := testSystem(t)
	cx, cy := s.ClosestCellCenter(-0.41, 0.47)
	if math.Abs(cx-(-0.375)) > eps || math.Abs(cy-0.375) > eps {
		t.Errorf("Expected center (-0.375, 0.375), got (%v,%v)", cx, cy)
	}
}

func TestNewSliceFullCover(t *testing.T) {
	s := testSystem(t)
	sl := NewSlice(s.Bounds, s)
	want := Slice{T: 0, B: 4, L: 0, R: 4}
	if diff := cmp.Diff(want, sl); diff != "" {
		t.Errorf("Full-cover slice mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSliceHalfCellRule(t *testing.T) {
	s := testSystem(t)
	// Request covers 60% of the leftmost column: a cell is included
	// when at least half of it is covered, so only column 0 survives.
	sl := NewSlice(BoundingRegion{Left: -0.5, Bottom: -0.5, Right: -0.35, Top: 0.5}, s)
	want := Slice{T: 0, B: 4, L: 0, R: 1}
	if diff := cmp.Diff(want, sl); diff != "" {
		t.Errorf("Slice mismatch (-want +got):\n%s", diff)
	}
}

func TestSliceComputeBoundsWholeCells(t *testing.T) {
	s := testSystem(t)
	req := BoundingRegion{Left: -0.1, Bottom: -0.2, Right: 0.4, Top: 0.3}
	sl := NewSlice(req, s)
	got := sl.ComputeBounds(s)
	// Realized bounds must land on cell edges (multiples of 0.25 from -0.5).
	for _, v := range []float64{got.Left, got.Bottom, got.Right, got.Top} {
		frac := (v + 0.5) / 0.25
		if math.Abs(frac-math.Round(frac)) > eps {
			t.Errorf("Realized bound %v not on a cell edge", v)
		}
	}
	if got.Width() <= 0 || got.Height() <= 0 {
		t.Errorf("Realized bounds degenerate: %+v", got)
	}
}

func TestNewSliceClampsToMatrix(t *testing.T) {
	s := testSystem(t)
	sl := NewSlice(BoundingRegion{Left: -5, Bottom: -5, Right: 5, Top: 5}, s)
	want := Slice{T: 0, B: 4, L: 0, R: 4}
	if diff := cmp.Diff(want, sl); diff != "" {
		t.Errorf("Clamped slice mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundRange(t *testing.T) {
	low, high, density, err := BoundRange([]float64{0.5, 1.5, 2.5, 3.5})
	if err != nil {
		t.Fatalf("BoundRange failed: %v", err)
	}
	if math.Abs(low-0) > eps || math.Abs(high-4) > eps {
		t.Errorf("Expected edges (0,4), got (%v,%v)", low, high)
	}
	if math.Abs(density-1) > eps {
		t.Errorf("Expected density 1, got %v", density)
	}
}

func TestBoundRangeErrors(t *testing.T) {
	if _, _, _, err := BoundRange([]float64{1}); err == nil {
		t.Error("Single sample accepted")
	}
	if _, _, _, err := BoundRange([]float64{3, 2, 1}); err == nil {
		t.Error("Descending samples accepted")
	}
	if _, _, _, err := BoundRange([]float64{0, 1, 3}); err == nil {
		t.Error("Non-uniform samples accepted")
	}
}
