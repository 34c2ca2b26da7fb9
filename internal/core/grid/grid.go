package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

// MatchTolerance is the absolute tolerance for matching a scattered sample
// to a derived axis coordinate. Axes are derived from the samples
// themselves, so matching degenerates to near-exact comparison.
const MatchTolerance = 1e-10

// Build reconstructs a regular matrix for one scalar variable from the
// scattered samples of a single time step. Cells with no matching sample
// hold NaN, which propagates as a rendering gap rather than an error.
func Build(records []model.ScalarRecord, variable string) (*model.Grid, error) {
	if !model.IsScalarVariable(variable) {
		return nil, fmt.Errorf("unknown scalar variable: %s", variable)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to grid")
	}

	g := &model.Grid{
		Variable: variable,
		Time:     records[0].Time,
		XAxis:    uniqueSorted(records, func(r model.ScalarRecord) float64 { return r.X }),
		ZAxis:    uniqueSorted(records, func(r model.ScalarRecord) float64 { return r.Z }),
		Min:      math.Inf(1),
		Max:      math.Inf(-1),
	}

	g.Matrix = make([][]float64, len(g.ZAxis))
	for i, z := range g.ZAxis {
		row := make([]float64, len(g.XAxis))
		for j, x := range g.XAxis {
			// First record matching both coordinates wins. Linear per-cell
			// search; one time step's row count is a small fraction of the
			// file, so this stays cheap except for very dense steps.
			value := math.NaN()
			for _, rec := range records {
				if math.Abs(rec.X-x) <= MatchTolerance && math.Abs(rec.Z-z) <= MatchTolerance {
					value, _ = rec.Value(variable)
					break
				}
			}
			row[j] = value
			if !model.IsMissing(value) {
				if value < g.Min {
					g.Min = value
				}
				if value > g.Max {
					g.Max = value
				}
			}
		}
		g.Matrix[i] = row
	}

	if math.IsInf(g.Min, 1) {
		// Every cell missed; degenerate but still renderable.
		g.Min, g.Max = 0, 0
	}

	return g, nil
}

// PercentRange maps colorbar percentage sliders onto the grid's data range.
// (0, 100) is the full auto range.
func PercentRange(g *model.Grid, lowPct, highPct float64) (lo, hi float64) {
	span := g.Max - g.Min
	lo = g.Min + span*lowPct/100
	hi = g.Min + span*highPct/100
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

func uniqueSorted(records []model.ScalarRecord, coord func(model.ScalarRecord) float64) []float64 {
	seen := make(map[float64]struct{}, len(records))
	values := make([]float64, 0, len(records))
	for _, r := range records {
		v := coord(r)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	return values
}
