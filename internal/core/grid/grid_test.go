package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

func rec(x, z, temp float64) model.ScalarRecord {
	return model.ScalarRecord{
		X:           x,
		Z:           z,
		Temperature: temp,
		Pressure:    temp * 1e4,
		Saturation:  1,
		Phase:       1,
	}
}

func TestBuildSimpleGrid(t *testing.T) {
	records := []model.ScalarRecord{
		rec(1, 0, 100),
		rec(2, 0, 110),
	}

	g, err := Build(records, model.VarTemperature)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2}, g.XAxis)
	assert.Equal(t, []float64{0}, g.ZAxis)
	require.Len(t, g.Matrix, 1)
	assert.Equal(t, []float64{100, 110}, g.Matrix[0])
	assert.Equal(t, 100.0, g.Min)
	assert.Equal(t, 110.0, g.Max)
}

func TestBuildLeavesUnsampledCellsMissing(t *testing.T) {
	// Three corners of a 2x2 grid; the fourth cell has no sample.
	records := []model.ScalarRecord{
		rec(1, 0, 100),
		rec(2, 0, 110),
		rec(1, 1, 120),
	}

	g, err := Build(records, model.VarTemperature)
	require.NoError(t, err)

	require.Len(t, g.Matrix, 2)
	assert.False(t, model.IsMissing(g.Matrix[0][0]))
	assert.False(t, model.IsMissing(g.Matrix[0][1]))
	assert.False(t, model.IsMissing(g.Matrix[1][0]))
	assert.True(t, model.IsMissing(g.Matrix[1][1]))

	// Missing cells never affect the data range.
	assert.Equal(t, 100.0, g.Min)
	assert.Equal(t, 120.0, g.Max)
}

func TestBuildSelectsVariable(t *testing.T) {
	records := []model.ScalarRecord{rec(1, 0, 50)}

	g, err := Build(records, model.VarPressure)
	require.NoError(t, err)
	assert.Equal(t, 50e4, g.Matrix[0][0])

	_, err = Build(records, "vorticity")
	assert.Error(t, err)
}

func TestBuildEmptyRecords(t *testing.T) {
	_, err := Build(nil, model.VarTemperature)
	assert.Error(t, err)
}

func TestBuildDuplicateCoordinateFirstWins(t *testing.T) {
	records := []model.ScalarRecord{
		rec(1, 0, 100),
		rec(1, 0, 999),
	}

	g, err := Build(records, model.VarTemperature)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, g.XAxis)
	assert.Equal(t, 100.0, g.Matrix[0][0])
}

func TestPercentRange(t *testing.T) {
	g := &model.Grid{Min: 0, Max: 200}

	lo, hi := PercentRange(g, 0, 100)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 200.0, hi)

	lo, hi = PercentRange(g, 25, 75)
	assert.Equal(t, 50.0, lo)
	assert.Equal(t, 150.0, hi)

	// Inverted sliders are normalized rather than producing hi < lo.
	lo, hi = PercentRange(g, 75, 25)
	assert.Equal(t, 50.0, lo)
	assert.Equal(t, 150.0, hi)
}
