package render

import (
	"math"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroviz/hydroviz/internal/core/model"
)

func testGrid() *model.Grid {
	return &model.Grid{
		Variable: model.VarTemperature,
		Time:     1.5,
		XAxis:    []float64{1, 2},
		ZAxis:    []float64{0},
		Matrix:   [][]float64{{100, math.NaN()}},
		Min:      100,
		Max:      100,
	}
}

func TestNewPayloadConvertsMissingToNil(t *testing.T) {
	p := NewPayload(testGrid(), FullColorWindow())

	require.Len(t, p.Matrix, 1)
	require.Len(t, p.Matrix[0], 2)
	require.NotNil(t, p.Matrix[0][0])
	assert.Equal(t, 100.0, *p.Matrix[0][0])
	assert.Nil(t, p.Matrix[0][1])
}

func TestNewPayloadColorWindow(t *testing.T) {
	g := testGrid()
	g.Min, g.Max = 0, 200

	p := NewPayload(g, ColorWindow{LowPct: 10, HighPct: 90})
	assert.Equal(t, 0.0, p.Min)
	assert.Equal(t, 200.0, p.Max)
	assert.Equal(t, 20.0, p.ColorMin)
	assert.Equal(t, 180.0, p.ColorMax)
}

func TestPayloadJSONEncodesNullsNotNaN(t *testing.T) {
	p := NewPayload(testGrid(), FullColorWindow())
	set := &model.ArrowSet{
		LineX: []float64{0, 1, math.NaN()},
		LineZ: []float64{0, 0, math.NaN()},
		Count: 1,
	}
	p = p.WithArrows(set, 1.6, model.VectorWater)

	body, err := p.JSON()
	require.NoError(t, err)

	text := string(body)
	assert.NotContains(t, strings.ToLower(text), "nan")
	assert.Contains(t, text, `"matrix":[[100,null]]`)
	assert.Contains(t, text, `"lineX":[0,1,null]`)
	assert.Contains(t, text, `"vectorTime":1.6`)

	// The encoded payload round-trips as plain JSON.
	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(body, &decoded))
	assert.Equal(t, model.VarTemperature, decoded["variable"])
}

func TestPayloadWithoutArrowsOmitsOverlayFields(t *testing.T) {
	p := NewPayload(testGrid(), FullColorWindow())

	body, err := p.JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(body), "arrows")
	assert.NotContains(t, string(body), "vectorTime")
}
