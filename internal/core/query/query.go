package query

import (
	"math"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/data/indexer"
)

// SeriesMatchThreshold is the maximum Euclidean distance at which a time
// step's nearest record is accepted into a point's series. Steps with no
// record inside the threshold are omitted, never interpolated.
const SeriesMatchThreshold = 0.1

// NearestEuclidean returns the record closest to (x, z) by Euclidean
// distance. Used by the live overlay query path.
func NearestEuclidean(records []model.ScalarRecord, x, z float64) (model.ScalarRecord, float64, bool) {
	return nearest(records, x, z, func(dx, dz float64) float64 {
		return math.Sqrt(dx*dx + dz*dz)
	})
}

// NearestManhattan returns the record closest to (x, z) by Manhattan
// distance. Used by the CSV export path. The two call sites intentionally
// keep different metrics; see DESIGN.md.
func NearestManhattan(records []model.ScalarRecord, x, z float64) (model.ScalarRecord, float64, bool) {
	return nearest(records, x, z, func(dx, dz float64) float64 {
		return math.Abs(dx) + math.Abs(dz)
	})
}

func nearest(records []model.ScalarRecord, x, z float64, metric func(dx, dz float64) float64) (model.ScalarRecord, float64, bool) {
	if len(records) == 0 {
		return model.ScalarRecord{}, 0, false
	}
	best := records[0]
	bestDist := metric(records[0].X-x, records[0].Z-z)
	for _, rec := range records[1:] {
		if d := metric(rec.X-x, rec.Z-z); d < bestDist {
			best = rec
			bestDist = d
		}
	}
	return best, bestDist, true
}

// SeriesSample is one accepted (time, value) pair of a point's series.
type SeriesSample struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Series is the assembled time series for one plotted point.
type Series struct {
	Point   model.PlotPoint `json:"point"`
	Samples []SeriesSample  `json:"samples"`
}

// ExtractSeries walks every canonical time step of the document and
// assembles a series per plotted point. Per step, the Euclidean-nearest
// record is accepted only within SeriesMatchThreshold; misses are dropped
// silently so a sparse region simply yields a shorter series.
func ExtractSeries(doc *indexer.Document, variable string, points []model.PlotPoint) ([]Series, error) {
	series := make([]Series, len(points))
	for i, p := range points {
		series[i] = Series{Point: p}
	}

	for _, t := range doc.Index.Times {
		records := doc.ExtractScalar(t)
		if len(records) == 0 {
			continue
		}
		for i, p := range points {
			rec, dist, ok := NearestEuclidean(records, p.X, p.Z)
			if !ok || dist > SeriesMatchThreshold {
				continue
			}
			value, err := rec.Value(variable)
			if err != nil {
				return nil, err
			}
			series[i].Samples = append(series[i].Samples, SeriesSample{Time: t, Value: value})
		}
	}

	return series, nil
}

// AutoSamplePoints picks up to max probe points evenly spread across the
// first time step's coordinate extent, for when the user supplies none.
func AutoSamplePoints(records []model.ScalarRecord, max int) []model.PlotPoint {
	if len(records) == 0 || max <= 0 {
		return nil
	}
	if max > len(records) {
		max = len(records)
	}
	stride := len(records) / max
	if stride == 0 {
		stride = 1
	}
	points := make([]model.PlotPoint, 0, max)
	for i := 0; i < len(records) && len(points) < max; i += stride {
		points = append(points, model.PlotPoint{
			X: records[i].X,
			Z: records[i].Z,
		})
	}
	return points
}
