package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

// Minimum whitespace-delimited column counts for a parseable data row.
const (
	ScalarColumns = 8
	VectorColumns = 10
)

// Header and unit markers. A line containing any of these is classified as
// header/noise, never data. The two sets differ only in the unit annotations
// of the value columns; the shared coordinate/time markers are identical.
var (
	scalarMarkers = []string{"(km)", "(yr)", "(Deg.C)", "(dyne/cm^2)", "(-)", "No."}
	vectorMarkers = []string{"(km)", "(yr)", "(m/s)", "(-)", "No."}
)

func markersFor(kind model.Kind) []string {
	if kind == model.KindVector {
		return vectorMarkers
	}
	return scalarMarkers
}

// IsDataLine reports whether line is a candidate data row: non-empty after
// trimming, not starting with '.', and free of header/unit markers.
func IsDataLine(line string, kind model.Kind) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ".") {
		return false
	}
	for _, marker := range markersFor(kind) {
		if strings.Contains(trimmed, marker) {
			return false
		}
	}
	return true
}

// HasHeaderMarker reports whether line carries any header/unit marker.
func HasHeaderMarker(line string, kind model.Kind) bool {
	for _, marker := range markersFor(kind) {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// parseFinite parses s as a float and requires the result to be finite.
// Scientific notation (1.250000E-02) is covered by ParseFloat.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseScalar parses one whitespace-split data row into a ScalarRecord.
// The row is valid only if all eight positional fields parse finite.
func ParseScalar(fields []string) (model.ScalarRecord, bool) {
	if len(fields) < ScalarColumns {
		return model.ScalarRecord{}, false
	}
	var values [8]float64
	for i := 0; i < ScalarColumns; i++ {
		v, ok := parseFinite(fields[i])
		if !ok {
			return model.ScalarRecord{}, false
		}
		values[i] = v
	}
	return model.ScalarRecord{
		X:           values[0],
		Y:           values[1],
		Z:           values[2],
		Time:        values[3],
		Temperature: values[4],
		Pressure:    values[5],
		Saturation:  values[6],
		Phase:       values[7],
	}, true
}

// ParseVector parses one whitespace-split data row into a VectorRecord.
// Coordinates and time (columns 0-3) must parse; beyond that the row is
// valid if at least one of the water pair (columns 4 and 6) or the steam
// pair (columns 7 and 9) parses finite.
func ParseVector(fields []string) (model.VectorRecord, bool) {
	if len(fields) < VectorColumns {
		return model.VectorRecord{}, false
	}
	var coords [4]float64
	for i := 0; i < 4; i++ {
		v, ok := parseFinite(fields[i])
		if !ok {
			return model.VectorRecord{}, false
		}
		coords[i] = v
	}
	rec := model.VectorRecord{
		X:    coords[0],
		Y:    coords[1],
		Z:    coords[2],
		Time: coords[3],
	}
	if u, okU := parseFinite(fields[4]); okU {
		if v, okV := parseFinite(fields[6]); okV {
			rec.WaterU, rec.WaterV, rec.HasWater = u, v, true
		}
	}
	if u, okU := parseFinite(fields[7]); okU {
		if v, okV := parseFinite(fields[9]); okV {
			rec.SteamU, rec.SteamV, rec.HasSteam = u, v, true
		}
	}
	if !rec.HasWater && !rec.HasSteam {
		return model.VectorRecord{}, false
	}
	return rec, true
}

// ParseLineTime extracts only the time column (column 3) from a data row.
// Used by the indexer, which does not need the full record.
func ParseLineTime(fields []string) (float64, bool) {
	if len(fields) < 4 {
		return 0, false
	}
	return parseFinite(fields[3])
}
