package vector

import (
	"math"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

const (
	// DefaultMaxArrows caps how many arrows one time step renders before
	// stride subsampling kicks in.
	DefaultMaxArrows = 1000

	// magnitudeEpsilon keeps log10 finite for vanishing magnitudes.
	magnitudeEpsilon = 1e-12

	// headLengthCap is the absolute maximum arrowhead length in axis units.
	headLengthCap = 0.5
)

// BuildArrows converts scattered flow samples into renderable line geometry.
// Arrow length is log-scaled: log10(magnitude + eps) * 10^scaleExponent.
// Disjoint segments are joined into single coordinate runs with NaN path
// breaks, so one plotted path can carry every arrow of the overlay.
//
// When the sample count exceeds maxArrows the set is thinned by a fixed
// stride in file order, never randomly, so a given file always yields the
// same arrows.
func BuildArrows(records []model.VectorRecord, vectorType string, scaleExponent float64, maxArrows int) *model.ArrowSet {
	if maxArrows <= 0 {
		maxArrows = DefaultMaxArrows
	}

	kept := make([]model.VectorRecord, 0, len(records))
	for _, rec := range records {
		if _, _, ok := rec.Components(vectorType); ok {
			kept = append(kept, rec)
		}
	}

	stride := 1
	if len(kept) > maxArrows {
		stride = (len(kept) + maxArrows - 1) / maxArrows
	}

	scale := math.Pow(10, scaleExponent)
	set := &model.ArrowSet{}

	for i := 0; i < len(kept); i += stride {
		rec := kept[i]
		u, v, _ := rec.Components(vectorType)

		m := math.Sqrt(u*u + v*v)
		var dirX, dirZ float64
		if m > 0 {
			dirX, dirZ = u/m, v/m
		}
		length := math.Log10(m+magnitudeEpsilon) * scale

		tipX := rec.X + dirX*length
		tipZ := rec.Z + dirZ*length

		set.LineX = append(set.LineX, rec.X, tipX, math.NaN())
		set.LineZ = append(set.LineZ, rec.Z, tipZ, math.NaN())
		set.Count++

		appendHead(set, rec.X, rec.Z, tipX, tipZ)
	}

	return set
}

// appendHead emits the two short segments forming a V at the arrow tip.
// Degenerate arrows (tip coincides with origin) get no head.
func appendHead(set *model.ArrowSet, originX, originZ, tipX, tipZ float64) {
	dx := tipX - originX
	dz := tipZ - originZ
	shaft := math.Sqrt(dx*dx + dz*dz)
	if shaft == 0 {
		return
	}

	headLen := 0.2 * shaft
	if headLen > headLengthCap {
		headLen = headLengthCap
	}

	// Unit vector along the shaft toward the tip, and its perpendicular.
	ux, uz := dx/shaft, dz/shaft
	px, pz := -uz, ux

	baseX := tipX - ux*headLen
	baseZ := tipZ - uz*headLen
	half := headLen / 2

	set.HeadX = append(set.HeadX, tipX, baseX+px*half, math.NaN())
	set.HeadZ = append(set.HeadZ, tipZ, baseZ+pz*half, math.NaN())
	set.HeadX = append(set.HeadX, tipX, baseX-px*half, math.NaN())
	set.HeadZ = append(set.HeadZ, tipZ, baseZ-pz*half, math.NaN())
}
