package model

import (
	"fmt"
	"math"
)

// Kind distinguishes the two plot file flavors produced by the simulator.
type Kind int

const (
	KindScalar Kind = iota
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	default:
		return "unknown"
	}
}

// Scalar variable names, matching the fixed column order of Plot_scalar files.
const (
	VarTemperature = "temperature"
	VarPressure    = "pressure"
	VarSaturation  = "saturation"
	VarPhase       = "phase"
)

// ScalarVariables lists the selectable scalar variables in column order.
var ScalarVariables = []string{VarTemperature, VarPressure, VarSaturation, VarPhase}

// IsScalarVariable reports whether name is one of the selectable scalar variables.
func IsScalarVariable(name string) bool {
	for _, v := range ScalarVariables {
		if v == name {
			return true
		}
	}
	return false
}

// Vector overlay types.
const (
	VectorWater = "water"
	VectorSteam = "steam"
)

// ScalarRecord is one row of a Plot_scalar file (columns 0-7).
type ScalarRecord struct {
	X           float64
	Y           float64
	Z           float64
	Time        float64
	Temperature float64
	Pressure    float64
	Saturation  float64
	Phase       float64
}

// Value returns the named scalar field of the record.
func (r ScalarRecord) Value(variable string) (float64, error) {
	switch variable {
	case VarTemperature:
		return r.Temperature, nil
	case VarPressure:
		return r.Pressure, nil
	case VarSaturation:
		return r.Saturation, nil
	case VarPhase:
		return r.Phase, nil
	default:
		return 0, fmt.Errorf("unknown scalar variable: %s", variable)
	}
}

// VectorRecord is one row of a Plot_vector file. A row may carry the water
// pair, the steam pair, or both; the Has flags mark which pairs parsed.
type VectorRecord struct {
	X        float64
	Y        float64
	Z        float64
	Time     float64
	WaterU   float64
	WaterV   float64
	SteamU   float64
	SteamV   float64
	HasWater bool
	HasSteam bool
}

// Components returns the (u, v) pair for the requested vector type.
// ok is false if the record does not carry that pair.
func (r VectorRecord) Components(vectorType string) (u, v float64, ok bool) {
	switch vectorType {
	case VectorWater:
		return r.WaterU, r.WaterV, r.HasWater
	case VectorSteam:
		return r.SteamU, r.SteamV, r.HasSteam
	default:
		return 0, 0, false
	}
}

// LineRange is a closed range of line numbers within the source text.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Lines returns the number of lines the range spans.
func (r LineRange) Lines() int {
	return r.End - r.Start + 1
}

// TimeIndex maps each time value found in a plot file to the contiguous
// line range holding its rows. Built once per file load, immutable after.
// If a time value reappears non-contiguously later in the file, the later
// block overwrites the earlier range (last-write-wins); see DESIGN.md.
type TimeIndex struct {
	Ranges map[float64]LineRange
	Times  []float64 // ascending, duplicate-free
}

// Range looks up the line range for an exact time key.
func (idx *TimeIndex) Range(t float64) (LineRange, bool) {
	r, ok := idx.Ranges[t]
	return r, ok
}

// NearestTime returns the indexed time value closest to t by absolute
// difference. Used when matching a vector file's time grid against a
// scalar file's; the two grids need not align.
func (idx *TimeIndex) NearestTime(t float64) (float64, bool) {
	if len(idx.Times) == 0 {
		return 0, false
	}
	best := idx.Times[0]
	bestDist := math.Abs(t - best)
	for _, candidate := range idx.Times[1:] {
		if d := math.Abs(t - candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, true
}

// Grid is a regular matrix of one scalar variable reconstructed from the
// scattered samples of a single time step. Matrix is indexed [zi][xi];
// cells with no matching sample hold NaN.
type Grid struct {
	Variable string
	Time     float64
	XAxis    []float64
	ZAxis    []float64
	Matrix   [][]float64
	Min      float64
	Max      float64
}

// IsMissing reports whether v is the missing-cell sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// ArrowSet is renderable flow-arrow geometry: polyline coordinate runs with
// NaN path breaks between disjoint segments, shafts and heads separate.
type ArrowSet struct {
	LineX []float64
	LineZ []float64
	HeadX []float64
	HeadZ []float64
	Count int
}

// PlotPoint is an ephemeral user-selected (x, z) probe for time-series
// extraction. At most four exist per session.
type PlotPoint struct {
	Label string
	X     float64
	Z     float64
	Color string
}

// FileEvent is emitted by the file watcher when a loaded plot file changes.
type FileEvent struct {
	Path      string
	Operation string
}
