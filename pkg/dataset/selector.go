package dataset

import (
	"gridframe/pkg/raster"
	"gridframe/pkg/sheet"
)

// Selector selects along one key dimension: either an exact continuous
// coordinate or a half-open continuous coordinate range. The zero value
// selects the full extent.
type Selector struct {
	scalar bool
	value  float64

	hasLo, hasHi bool
	lo, hi       float64
}

// At selects the single cell containing the continuous coordinate v.
func At(v float64) Selector {
	return Selector{scalar: true, value: v}
}

// Between selects the continuous coordinate range [lo, hi).
func Between(lo, hi float64) Selector {
	return Selector{hasLo: true, lo: lo, hasHi: true, hi: hi}
}

// From selects coordinates at or above lo.
func From(lo float64) Selector {
	return Selector{hasLo: true, lo: lo}
}

// To selects coordinates below hi.
func To(hi float64) Selector {
	return Selector{hasHi: true, hi: hi}
}

// All selects the full extent of the dimension.
func All() Selector {
	return Selector{}
}

// IsScalar reports whether the selector is an exact coordinate.
func (s Selector) IsScalar() bool { return s.scalar }

// clampExtent narrows the extent [lo, hi] by the selector's range limits.
// Limits never widen the extent.
func (s Selector) clampExtent(lo, hi float64) (float64, float64) {
	if s.hasLo && s.lo > lo {
		lo = s.lo
	}
	if s.hasHi && s.hi < hi {
		hi = s.hi
	}
	return lo, hi
}

// SelectResult is the outcome of a selection. Exactly one branch is
// populated: Raster with its realized Bounds for range selections, or
// Sample (one value per value dimension) when every selected dimension was
// an exact coordinate.
type SelectResult struct {
	Raster *raster.Raster
	Bounds sheet.BoundingRegion
	Sample []float64
}
