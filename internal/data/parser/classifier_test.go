package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

const (
	scalarHeaderLine = "      X(km)       Y(km)       Z(km)    Time(yr)  Temp(Deg.C)  Pres(dyne/cm^2)   Sat(-)   Phase No."
	vectorHeaderLine = "      X(km)       Y(km)       Z(km)    Time(yr)   Uw(m/s)   dum(-)   Vw(m/s)   Us(m/s)   dum(-)   Vs(m/s)"

	scalarDataLine = "  1.000000E+00  0.000000E+00  0.000000E+00  0.000000E+00  1.000000E+02  1.013250E+06  1.000000E+00  1.000000E+00"
	vectorDataLine = "  1.000000E+00  0.000000E+00  0.000000E+00  0.000000E+00  1.000000E-03  0.0  2.000000E-03  3.000000E-03  0.0  4.000000E-03"
)

func TestIsDataLineSkipsHeaderAndNoise(t *testing.T) {
	assert.False(t, IsDataLine("", model.KindScalar))
	assert.False(t, IsDataLine("   ", model.KindScalar))
	assert.False(t, IsDataLine(". continuation artifact", model.KindScalar))
	assert.False(t, IsDataLine(scalarHeaderLine, model.KindScalar))
	assert.False(t, IsDataLine(vectorHeaderLine, model.KindVector))

	assert.True(t, IsDataLine(scalarDataLine, model.KindScalar))
	assert.True(t, IsDataLine(vectorDataLine, model.KindVector))
}

func TestIsDataLineMarkerSetsDifferByKind(t *testing.T) {
	// (Deg.C) only marks scalar headers; (m/s) only marks vector headers.
	assert.False(t, IsDataLine("garbage with (Deg.C) inside", model.KindScalar))
	assert.True(t, IsDataLine("garbage with (Deg.C) inside", model.KindVector))
	assert.False(t, IsDataLine("garbage with (m/s) inside", model.KindVector))
	assert.True(t, IsDataLine("garbage with (m/s) inside", model.KindScalar))
}

func TestParseScalarValidRow(t *testing.T) {
	rec, ok := ParseScalar(strings.Fields(scalarDataLine))
	require.True(t, ok)
	assert.Equal(t, 1.0, rec.X)
	assert.Equal(t, 0.0, rec.Y)
	assert.Equal(t, 0.0, rec.Z)
	assert.Equal(t, 0.0, rec.Time)
	assert.Equal(t, 100.0, rec.Temperature)
	assert.Equal(t, 1.01325e6, rec.Pressure)
	assert.Equal(t, 1.0, rec.Saturation)
	assert.Equal(t, 1.0, rec.Phase)
}

func TestParseScalarRejectsShortAndNonNumericRows(t *testing.T) {
	_, ok := ParseScalar(strings.Fields("1.0 2.0 3.0"))
	assert.False(t, ok)

	_, ok = ParseScalar(strings.Fields("1.0 0.0 0.0 0.0 abc 1.0 1.0 1.0"))
	assert.False(t, ok)

	// Non-finite values never produce a record.
	_, ok = ParseScalar(strings.Fields("1.0 0.0 0.0 0.0 Inf 1.0 1.0 1.0"))
	assert.False(t, ok)
	_, ok = ParseScalar(strings.Fields("1.0 0.0 0.0 0.0 NaN 1.0 1.0 1.0"))
	assert.False(t, ok)
}

func TestParseVectorBothPhases(t *testing.T) {
	rec, ok := ParseVector(strings.Fields(vectorDataLine))
	require.True(t, ok)
	assert.True(t, rec.HasWater)
	assert.True(t, rec.HasSteam)
	assert.Equal(t, 1e-3, rec.WaterU)
	assert.Equal(t, 2e-3, rec.WaterV)
	assert.Equal(t, 3e-3, rec.SteamU)
	assert.Equal(t, 4e-3, rec.SteamV)
}

func TestParseVectorPartialPhases(t *testing.T) {
	// Water pair parses, steam pair does not: still a valid record.
	waterOnly := "1.0 0.0 0.0 0.0 1.0e-3 0.0 2.0e-3 *** 0.0 ***"
	rec, ok := ParseVector(strings.Fields(waterOnly))
	require.True(t, ok)
	assert.True(t, rec.HasWater)
	assert.False(t, rec.HasSteam)

	steamOnly := "1.0 0.0 0.0 0.0 *** 0.0 *** 3.0e-3 0.0 4.0e-3"
	rec, ok = ParseVector(strings.Fields(steamOnly))
	require.True(t, ok)
	assert.False(t, rec.HasWater)
	assert.True(t, rec.HasSteam)
}

func TestParseVectorRejectsWhenNoPhaseParses(t *testing.T) {
	neither := "1.0 0.0 0.0 0.0 *** 0.0 *** *** 0.0 ***"
	_, ok := ParseVector(strings.Fields(neither))
	assert.False(t, ok)

	// Broken coordinates reject even with valid phase pairs.
	badCoord := "xyz 0.0 0.0 0.0 1.0e-3 0.0 2.0e-3 3.0e-3 0.0 4.0e-3"
	_, ok = ParseVector(strings.Fields(badCoord))
	assert.False(t, ok)
}

func TestParseLineTime(t *testing.T) {
	v, ok := ParseLineTime(strings.Fields(scalarDataLine))
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = ParseLineTime(strings.Fields("1.0 2.0 3.0"))
	assert.False(t, ok)
}
