package render

import (
	"github.com/bytedance/sonic"
	"github.com/hydroviz/hydroviz/internal/core/grid"
	"github.com/hydroviz/hydroviz/internal/core/model"
)

// Payload is the render contract handed to plotting consumers: one grid,
// optional arrow geometry, and the resolved color window. Missing cells
// and arrow path breaks are JSON null.
type Payload struct {
	Variable   string        `json:"variable"`
	Time       float64       `json:"time"`
	VectorTime *float64      `json:"vectorTime,omitempty"`
	VectorType string        `json:"vectorType,omitempty"`
	XAxis      []float64     `json:"xAxis"`
	ZAxis      []float64     `json:"zAxis"`
	Matrix     [][]*float64  `json:"matrix"`
	Min        float64       `json:"min"`
	Max        float64       `json:"max"`
	ColorMin   float64       `json:"colorMin"`
	ColorMax   float64       `json:"colorMax"`
	Arrows     *ArrowPayload `json:"arrows,omitempty"`
}

// ArrowPayload carries arrow geometry as coordinate runs with null breaks.
type ArrowPayload struct {
	LineX []*float64 `json:"lineX"`
	LineZ []*float64 `json:"lineZ"`
	HeadX []*float64 `json:"headX"`
	HeadZ []*float64 `json:"headZ"`
	Count int        `json:"count"`
}

// ColorWindow selects the colorbar range as percentages of the data range.
// The zero value is not valid; use FullColorWindow for the auto range.
type ColorWindow struct {
	LowPct  float64
	HighPct float64
}

// FullColorWindow is the auto (full data range) color window.
func FullColorWindow() ColorWindow {
	return ColorWindow{LowPct: 0, HighPct: 100}
}

// NewPayload converts a grid into a render payload.
func NewPayload(g *model.Grid, window ColorWindow) *Payload {
	lo, hi := grid.PercentRange(g, window.LowPct, window.HighPct)

	matrix := make([][]*float64, len(g.Matrix))
	for i, row := range g.Matrix {
		out := make([]*float64, len(row))
		for j, v := range row {
			if !model.IsMissing(v) {
				value := v
				out[j] = &value
			}
		}
		matrix[i] = out
	}

	return &Payload{
		Variable: g.Variable,
		Time:     g.Time,
		XAxis:    g.XAxis,
		ZAxis:    g.ZAxis,
		Matrix:   matrix,
		Min:      g.Min,
		Max:      g.Max,
		ColorMin: lo,
		ColorMax: hi,
	}
}

// WithArrows attaches vector overlay geometry resolved at vectorTime.
func (p *Payload) WithArrows(set *model.ArrowSet, vectorTime float64, vectorType string) *Payload {
	p.VectorTime = &vectorTime
	p.VectorType = vectorType
	p.Arrows = &ArrowPayload{
		LineX: nullableRun(set.LineX),
		LineZ: nullableRun(set.LineZ),
		HeadX: nullableRun(set.HeadX),
		HeadZ: nullableRun(set.HeadZ),
		Count: set.Count,
	}
	return p
}

// JSON encodes the payload.
func (p *Payload) JSON() ([]byte, error) {
	return sonic.Marshal(p)
}

func nullableRun(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if !model.IsMissing(v) {
			value := v
			out[i] = &value
		}
	}
	return out
}
