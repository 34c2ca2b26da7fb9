package vector

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

func waterRec(x, z, u, v float64) model.VectorRecord {
	return model.VectorRecord{X: x, Z: z, WaterU: u, WaterV: v, HasWater: true}
}

func TestBuildArrowsGeometry(t *testing.T) {
	// Magnitude 10 pointing along +x: length = log10(10) * 10^0 = 1.
	records := []model.VectorRecord{waterRec(5, 3, 10, 0)}

	set := BuildArrows(records, model.VectorWater, 0, 0)
	require.Equal(t, 1, set.Count)

	// Shaft: origin, tip, NaN break.
	require.Len(t, set.LineX, 3)
	assert.Equal(t, 5.0, set.LineX[0])
	assert.InDelta(t, 6.0, set.LineX[1], 1e-9)
	assert.True(t, math.IsNaN(set.LineX[2]))
	assert.Equal(t, 3.0, set.LineZ[0])
	assert.InDelta(t, 3.0, set.LineZ[1], 1e-9)

	// Head: two V segments of (tip, wing, NaN) each.
	assert.Len(t, set.HeadX, 6)
	assert.Len(t, set.HeadZ, 6)
	assert.InDelta(t, 6.0, set.HeadX[0], 1e-9)
	assert.True(t, math.IsNaN(set.HeadX[2]))
	assert.True(t, math.IsNaN(set.HeadX[5]))
}

func TestBuildArrowsScaleExponent(t *testing.T) {
	records := []model.VectorRecord{waterRec(0, 0, 100, 0)}

	// log10(100) = 2, scaled by 10^1 = 20.
	set := BuildArrows(records, model.VectorWater, 1, 0)
	assert.InDelta(t, 20.0, set.LineX[1], 1e-6)
}

func TestBuildArrowsFiltersByVectorType(t *testing.T) {
	records := []model.VectorRecord{
		waterRec(0, 0, 1, 0),
		{X: 1, Z: 0, SteamU: 1, SteamV: 0, HasSteam: true},
	}

	water := BuildArrows(records, model.VectorWater, 0, 0)
	assert.Equal(t, 1, water.Count)

	steam := BuildArrows(records, model.VectorSteam, 0, 0)
	assert.Equal(t, 1, steam.Count)
}

func TestBuildArrowsStrideIsDeterministic(t *testing.T) {
	records := make([]model.VectorRecord, 25)
	for i := range records {
		records[i] = waterRec(float64(i), 0, 10, 0)
	}

	// 25 samples, cap 10: stride ceil(25/10) = 3, keeping indexes 0,3,...,24.
	set := BuildArrows(records, model.VectorWater, 0, 10)
	assert.Equal(t, 9, set.Count)
	assert.Equal(t, 0.0, set.LineX[0])
	assert.Equal(t, 3.0, set.LineX[3])

	again := BuildArrows(records, model.VectorWater, 0, 10)
	assert.Equal(t, set.LineX, again.LineX)
	assert.Equal(t, set.LineZ, again.LineZ)
}

func TestBuildArrowsDegenerateGetsNoHead(t *testing.T) {
	// Zero magnitude: direction is undefined, tip coincides with origin.
	records := []model.VectorRecord{waterRec(1, 1, 0, 0)}

	set := BuildArrows(records, model.VectorWater, 0, 0)
	assert.Equal(t, 1, set.Count)
	assert.Empty(t, set.HeadX)
	assert.Empty(t, set.HeadZ)
}

func TestBuildArrowsHeadLengthCapped(t *testing.T) {
	// A very long shaft caps the head at 0.5 axis units.
	records := []model.VectorRecord{waterRec(0, 0, 1e8, 0)}

	set := BuildArrows(records, model.VectorWater, 1, 0)
	tipX := set.HeadX[0]
	baseWingX := set.HeadX[1]
	headSpan := math.Abs(tipX - baseWingX)
	assert.LessOrEqual(t, headSpan, 0.5*math.Sqrt2+1e-9,
		fmt.Sprintf("head span %f exceeds cap geometry", headSpan))
}

func TestBuildArrowsEmptyInput(t *testing.T) {
	set := BuildArrows(nil, model.VectorWater, 0, 0)
	assert.Equal(t, 0, set.Count)
	assert.Empty(t, set.LineX)
}
